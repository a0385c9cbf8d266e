package main

import (
	"context"
	"watclub-backend/cmd/watclub-cli/commands"
	"watclub-backend/lib/telemetry"
	"watclub-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.SetupFromEnv(ctx, "watclub-cli")
	defer telemetry.Shutdown(context.Background())
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
