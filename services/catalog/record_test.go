package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowMarksAbsentFields(t *testing.T) {
	r := MovieRecord{
		Title:      "Movie A",
		URL:        "https://example.com/m/1",
		ScrapeDate: "2024-02-01 00:00:00",
	}
	row := r.Row()
	require.Len(t, row, len(Headers))
	require.Equal(t, "Movie A", row[0])
	require.Equal(t, "https://example.com/m/1", row[1])
	require.Equal(t, Sentinel, row[2])  // description
	require.Equal(t, Sentinel, row[3])  // runtime
	require.Equal(t, Sentinel, row[12]) // cinema count
	require.Equal(t, "2024-02-01 00:00:00", row[16])
}

func TestFromRowRoundTrip(t *testing.T) {
	r := MovieRecord{
		Title:           "Movie A",
		URL:             "https://example.com/m/1",
		Description:     "A long description.",
		RuntimeMinutes:  135,
		ReleaseDate:     "2024-12-25",
		Language:        "English",
		Genre:           "Action",
		Distributor:     "GSC Movies",
		Classification:  "P13",
		Cast:            "Amir Rahman",
		Director:        "S. Kumar",
		Format:          "IMAX",
		CinemaCount:     12,
		PosterURL:       "https://example.com/p.jpg",
		LocalPosterPath: "posters/2024_12/p.jpg",
		ShowtimesData:   `[{"cinemaName":"GSC"}]`,
		ScrapeDate:      "2024-02-01 00:00:00",
	}
	require.Equal(t, r, FromRow(r.Row()))
}

func TestFromRowSentinelAndShortRows(t *testing.T) {
	r := FromRow([]string{"Movie A", Sentinel, "", "not-a-number"})
	require.Equal(t, "Movie A", r.Title)
	require.Equal(t, "", r.URL)
	require.Equal(t, 0, r.RuntimeMinutes)
	require.Equal(t, "", r.ScrapeDate)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))

	long := strings.Repeat("x", 20)
	got := Truncate(long, 10)
	require.Equal(t, strings.Repeat("x", 10)+TruncationMarker, got)

	// exactly at budget passes untouched
	require.Equal(t, long, Truncate(long, 20))
}
