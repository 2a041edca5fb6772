package commands

import (
	"log/slog"
	"sort"

	"cinescrape/lib/configutil"
	"cinescrape/lib/serviceutil"
	"cinescrape/lib/sqliteutil"
	"cinescrape/services/catalog"
	"cinescrape/services/catalog/archive"
	"cinescrape/services/catalog/sheet"
	"cinescrape/services/catalog/xlsx"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var exportOut *string
var exportFromArchive *string

func init() {
	exportOut = exportCmd.Flags().String("out", "movies.xlsx", "The workbook to write the collection to.")
	exportFromArchive = exportCmd.Flags().String("from-archive", "", "Export the latest archived run instead of the live worksheet.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--out <path/to/movies.xlsx>] [--from-archive <path/to/archive.db>]",
	Short: "Exports the movie collection to an xlsx workbook.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var byTitle map[string]catalog.MovieRecord

		if *exportFromArchive != "" {
			database, err := sqliteutil.OpenDB(archive.Schema, *exportFromArchive)
			if err != nil {
				serviceutil.Fatal("failed to open archive db", err)
			}
			defer database.Close()

			runStartedAt, records, err := archive.NewStore(database).Latest(ctx)
			if err != nil {
				serviceutil.Fatal("failed to read latest archived run", err)
			}
			slog.Info("exporting archived run", "run_started_at", runStartedAt)
			byTitle = records
		} else {
			cfg, err := configutil.ReadConfig[Config]("config.json5")
			if err != nil {
				serviceutil.Fatal("failed to read config", err)
			}
			store, err := sheet.Open(ctx, sheet.Options{
				CredentialsFile: cfg.CredentialsFile,
				SpreadsheetId:   cfg.SpreadsheetId,
				Worksheet:       cfg.Worksheet,
			})
			if err != nil {
				serviceutil.Fatal("failed to open master worksheet", err)
			}
			byTitle, err = store.Read(ctx)
			if err != nil {
				serviceutil.Fatal("failed to read master worksheet", err)
			}
		}

		records := make([]catalog.MovieRecord, 0, len(byTitle))
		for _, record := range byTitle {
			records = append(records, record)
		}
		sort.Slice(records, func(i, j int) bool {
			return records[i].Title < records[j].Title
		})

		err := xlsx.Export(records, *exportOut)
		if err != nil {
			serviceutil.Fatal("failed to write workbook", err)
		}
	},
}
