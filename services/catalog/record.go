package catalog

import "strconv"

// the cell marker the sheet carries for a value no scrape has produced;
// in memory absence is ""/0 and the marker exists only at store
// boundaries
const Sentinel = "N/A"

// appended verbatim when a showtime payload is cut to the cell budget
const TruncationMarker = "...[TRUNCATED]"

// just under the sink's hard 50k per-cell limit
const DefaultCellCharBudget = 49900

// Headers is the sheet's fixed header row. Column order is part of the
// store contract, everything reading or writing rows goes through it.
var Headers = []string{
	"Movie Title",
	"Movie URL",
	"Description",
	"Running Time (Minutes)",
	"Release Date (YYYY-MM-DD)",
	"Language",
	"Genre",
	"Distributor",
	"Classification",
	"Cast",
	"Director",
	"Format",
	"Cinema Count",
	"Poster URL",
	"Local Poster Path",
	"Aggregated Showtimes Data",
	"Scrape Date",
}

// MovieRecord is one row of the master sheet. Built once per run per
// movie and treated as an immutable value afterwards.
type MovieRecord struct {
	Title           string
	URL             string
	Description     string
	RuntimeMinutes  int
	ReleaseDate     string
	Language        string
	Genre           string
	Distributor     string
	Classification  string
	Cast            string
	Director        string
	Format          string
	CinemaCount     int
	PosterURL       string
	LocalPosterPath string
	ShowtimesData   string
	ScrapeDate      string
}

// Truncate cuts an oversized cell payload down to `budget` characters
// plus the truncation marker, so a sheet write can never fail on cell
// size. Payloads within budget pass through untouched.
func Truncate(payload string, budget int) string {
	runes := []rune(payload)
	if len(runes) <= budget {
		return payload
	}
	return string(runes[:budget]) + TruncationMarker
}

func cellOrSentinel(v string) string {
	if v == "" {
		return Sentinel
	}
	return v
}

func countCell(n int) string {
	if n <= 0 {
		return Sentinel
	}
	return strconv.Itoa(n)
}

// Row renders the record in sheet column order, absent fields as the
// sentinel marker.
func (r MovieRecord) Row() []string {
	return []string{
		r.Title,
		cellOrSentinel(r.URL),
		cellOrSentinel(r.Description),
		countCell(r.RuntimeMinutes),
		cellOrSentinel(r.ReleaseDate),
		cellOrSentinel(r.Language),
		cellOrSentinel(r.Genre),
		cellOrSentinel(r.Distributor),
		cellOrSentinel(r.Classification),
		cellOrSentinel(r.Cast),
		cellOrSentinel(r.Director),
		cellOrSentinel(r.Format),
		countCell(r.CinemaCount),
		cellOrSentinel(r.PosterURL),
		cellOrSentinel(r.LocalPosterPath),
		cellOrSentinel(r.ShowtimesData),
		cellOrSentinel(r.ScrapeDate),
	}
}

func valueOrAbsent(v string) string {
	if v == Sentinel {
		return ""
	}
	return v
}

func countFromCell(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FromRow parses a sheet row back into a record, mapping sentinel cells
// to in-memory absence. Short rows are tolerated, missing columns read
// as absent.
func FromRow(row []string) MovieRecord {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	return MovieRecord{
		Title:           cell(0),
		URL:             valueOrAbsent(cell(1)),
		Description:     valueOrAbsent(cell(2)),
		RuntimeMinutes:  countFromCell(cell(3)),
		ReleaseDate:     valueOrAbsent(cell(4)),
		Language:        valueOrAbsent(cell(5)),
		Genre:           valueOrAbsent(cell(6)),
		Distributor:     valueOrAbsent(cell(7)),
		Classification:  valueOrAbsent(cell(8)),
		Cast:            valueOrAbsent(cell(9)),
		Director:        valueOrAbsent(cell(10)),
		Format:          valueOrAbsent(cell(11)),
		CinemaCount:     countFromCell(cell(12)),
		PosterURL:       valueOrAbsent(cell(13)),
		LocalPosterPath: valueOrAbsent(cell(14)),
		ShowtimesData:   valueOrAbsent(cell(15)),
		ScrapeDate:      valueOrAbsent(cell(16)),
	}
}
