package xlsx

import (
	"path/filepath"
	"testing"

	"cinescrape/services/catalog"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.xlsx")
	err := Export([]catalog.MovieRecord{
		{Title: "Movie A", Genre: "Action", ScrapeDate: "2024-02-01 11:00:00"},
		{Title: "Movie B", RuntimeMinutes: 101, ScrapeDate: "2024-02-01 11:00:00"},
	}, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(worksheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, catalog.Headers, rows[0])
	require.Equal(t, "Movie A", rows[1][0])
	require.Equal(t, "101", rows[2][3])
}
