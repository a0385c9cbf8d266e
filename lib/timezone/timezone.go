package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Toronto")
	if err != nil {
		panic(err)
	}
}

// force timestamps into campus time so scrape runs on servers in other
// regions still produce consistent scraped_at dates
func Now() time.Time {
	return time.Now().In(Location)
}
