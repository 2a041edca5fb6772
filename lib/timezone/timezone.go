package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		panic(err)
	}
}

// force timezone to be Malaysian because the cron host may sit in any
// region and the scrape stamps / poster directories are derived from
// <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// layout of the sheet's "Scrape Date" column
const StampLayout = "2006-01-02 15:04:05"

func Stamp(t time.Time) string {
	return t.In(Location).Format(StampLayout)
}

// layout of poster subdirectories, one per month of scraping
const MonthDirLayout = "2006_01"

func MonthDir(t time.Time) string {
	return t.In(Location).Format(MonthDirLayout)
}
