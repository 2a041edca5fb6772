package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeKeepsExistingFieldOverAbsentFresh(t *testing.T) {
	existing := map[string]MovieRecord{
		"Movie A": {Title: "Movie A", Genre: "Action", ScrapeDate: "2024-01-01 00:00:00"},
	}
	fresh := []MovieRecord{
		{Title: "Movie A", Genre: "", ScrapeDate: "2024-02-01 00:00:00"},
	}

	out := Merge(existing, fresh)
	require.Len(t, out, 1)
	require.Equal(t, "Action", out[0].Genre)
	require.Equal(t, "2024-02-01 00:00:00", out[0].ScrapeDate)
}

func TestMergeSentinelNeverOverwrites(t *testing.T) {
	// a record that skipped boundary normalization still can't regress
	// a known field
	existing := map[string]MovieRecord{
		"Movie A": {Title: "Movie A", Director: "S. Kumar"},
	}
	fresh := []MovieRecord{
		{Title: "Movie A", Director: Sentinel, ScrapeDate: "2024-02-01 00:00:00"},
	}

	out := Merge(existing, fresh)
	require.Equal(t, "S. Kumar", out[0].Director)
}

func TestMergeFreshValueWins(t *testing.T) {
	existing := map[string]MovieRecord{
		"Movie A": {Title: "Movie A", Genre: "Action", RuntimeMinutes: 90},
	}
	fresh := []MovieRecord{
		{Title: "Movie A", Genre: "Drama", RuntimeMinutes: 120, ScrapeDate: "2024-02-01 00:00:00"},
	}

	out := Merge(existing, fresh)
	require.Equal(t, "Drama", out[0].Genre)
	require.Equal(t, 120, out[0].RuntimeMinutes)
}

func TestMergeExistingOnlySurvivesUnchanged(t *testing.T) {
	record := MovieRecord{
		Title:      "Old Movie",
		Genre:      "Horror",
		ScrapeDate: "2023-06-01 00:00:00",
	}
	out := Merge(map[string]MovieRecord{"Old Movie": record}, []MovieRecord{
		{Title: "New Movie", ScrapeDate: "2024-02-01 00:00:00"},
	})

	require.Len(t, out, 2)
	require.Equal(t, record, out[1])
}

func TestMergeFreshOnlyInsertedWhole(t *testing.T) {
	fresh := MovieRecord{
		Title:          "New Movie",
		URL:            "https://example.com/m/1",
		Genre:          "Comedy",
		RuntimeMinutes: 101,
		ScrapeDate:     "2024-02-01 00:00:00",
	}
	out := Merge(map[string]MovieRecord{}, []MovieRecord{fresh})
	require.Equal(t, []MovieRecord{fresh}, out)
}

func TestMergeOrdersByTitle(t *testing.T) {
	existing := map[string]MovieRecord{
		"Zulu":  {Title: "Zulu"},
		"Alpha": {Title: "Alpha"},
	}
	fresh := []MovieRecord{
		{Title: "Mango", ScrapeDate: "2024-02-01 00:00:00"},
		{Title: "Beta", ScrapeDate: "2024-02-01 00:00:00"},
	}

	out := Merge(existing, fresh)
	titles := make([]string, len(out))
	for i, r := range out {
		titles[i] = r.Title
	}
	require.Equal(t, []string{"Alpha", "Beta", "Mango", "Zulu"}, titles)
}

func TestMergeDuplicateTitlesInBatchLastWins(t *testing.T) {
	out := Merge(map[string]MovieRecord{}, []MovieRecord{
		{Title: "Movie A", Genre: "Action", ScrapeDate: "2024-02-01 00:00:00"},
		{Title: "Movie A", Genre: "Drama", ScrapeDate: "2024-02-01 00:05:00"},
	})
	require.Len(t, out, 1)
	require.Equal(t, "Drama", out[0].Genre)
	require.Equal(t, "2024-02-01 00:05:00", out[0].ScrapeDate)
}
