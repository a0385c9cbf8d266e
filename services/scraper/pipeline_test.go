package scraper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"watclub-backend/lib/orgs"
	"watclub-backend/lib/telemetry"
	"watclub-backend/services/scraper/snapshot"

	"github.com/stretchr/testify/require"
)

type fakeItem struct {
	Name    string
	Poison  bool
	Skipped bool
}

type fakeExtractor struct {
	items      []fakeItem
	listErr    error
	concurrent atomic.Int32
	peak       atomic.Int32
}

func (f *fakeExtractor) Source() orgs.Type { return orgs.TypeWUSA }

func (f *fakeExtractor) ItemName(item fakeItem) string { return item.Name }

func (f *fakeExtractor) ListItems(ctx context.Context) ([]fakeItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeExtractor) ExtractOne(ctx context.Context, item fakeItem) (*orgs.Organization, error) {
	current := f.concurrent.Add(1)
	defer f.concurrent.Add(-1)
	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	if item.Poison {
		return nil, &ExtractError{Item: item.Name, Err: fmt.Errorf("unexpected markup")}
	}
	if item.Skipped {
		return nil, nil
	}
	org := orgs.New(item.Name, orgs.TypeWUSA, "https://clubs.wusa.ca/clubs/"+item.Name)
	return &org, nil
}

func TestRunIsolatesItemFailures(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper")
	defer cleanup()

	ex := &fakeExtractor{items: []fakeItem{
		{Name: "a"},
		{Name: "b", Poison: true},
		{Name: "c"},
		{Name: "d"},
	}}

	result, err := Run(context.Background(), ex, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	require.Len(t, result.Failures, 1)
	require.Equal(t, "b", result.Failures[0].Item)
	require.ErrorContains(t, result.Failures[0].Err, "unexpected markup")
}

func TestRunDropsIntentionalSkips(t *testing.T) {
	ex := &fakeExtractor{items: []fakeItem{
		{Name: "a"},
		{Name: "b", Skipped: true},
	}}

	result, err := Run(context.Background(), ex, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Empty(t, result.Failures)
}

func TestRunSourceUnavailable(t *testing.T) {
	ex := &fakeExtractor{listErr: fmt.Errorf("connection refused")}

	result, err := Run(context.Background(), ex, Options{})
	require.Error(t, err)
	var unavailable *SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Empty(t, result.Records)
}

func TestRunBoundsFanout(t *testing.T) {
	var items []fakeItem
	for i := 0; i < 64; i++ {
		items = append(items, fakeItem{Name: fmt.Sprintf("club-%d", i)})
	}
	ex := &fakeExtractor{items: items}

	result, err := Run(context.Background(), ex, Options{Fanout: 4})
	require.NoError(t, err)
	require.Len(t, result.Records, 64)
	require.LessOrEqual(t, ex.peak.Load(), int32(4))
}

func TestRunAndSave(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	ex := &fakeExtractor{items: []fakeItem{
		{Name: "a"},
		{Name: "b", Poison: true},
		{Name: "c"},
	}}

	result, err := RunAndSave(context.Background(), ex, store, Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.Len(t, result.Failures, 1)

	snap, err := store.Load(orgs.TypeWUSA)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Count)
}

func TestRunAndSaveSkipsWriteWhenListingFails(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.NewStore(dir)
	ex := &fakeExtractor{listErr: fmt.Errorf("down for maintenance")}

	_, err := RunAndSave(context.Background(), ex, store, Options{})
	require.Error(t, err)

	_, err = store.Load(orgs.TypeWUSA)
	require.Error(t, err)
}
