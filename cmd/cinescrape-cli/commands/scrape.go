package commands

import (
	"log/slog"
	"os"
	"time"

	"cinescrape/lib/configutil"
	"cinescrape/lib/restyutil"
	"cinescrape/lib/scrapers/mycinema"
	"cinescrape/lib/serviceutil"
	"cinescrape/lib/sqliteutil"
	"cinescrape/services/catalog/archive"
	"cinescrape/services/catalog/sheet"
	"cinescrape/services/catalog/sync"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

type Config struct {
	BaseUrl         string `json:"base_url"`
	CredentialsFile string `json:"credentials_file"`
	SpreadsheetId   string `json:"spreadsheet_id"`
	Worksheet       string `json:"worksheet"`
	MaxMovies       int    `json:"max_movies"`
	MaxDays         int    `json:"max_days"`
	DelaySeconds    int    `json:"delay_seconds"`
	PosterDir       string `json:"poster_dir"`
	CellCharBudget  int    `json:"cell_char_budget"`
}

var scrapeArchiveDb *string
var scrapeDebugHttp *bool

func init() {
	scrapeArchiveDb = scrapeCmd.Flags().String("archive-db", "archive.db", "The database to mirror each run's merged collection to.")
	scrapeDebugHttp = scrapeCmd.Flags().Bool("debug-http", false, "Dump raw requests and responses to .dev/resty/scraper.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--archive-db <path/to/archive.db>] [--debug-http]",
	Short: "Runs one full scrape according to a config and syncs the master worksheet.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		// fail before touching the network, not after a full scrape
		_, err = os.Stat(cfg.CredentialsFile)
		if err != nil {
			serviceutil.Fatal("service account credentials are not readable", err)
		}

		clientOpts := mycinema.ClientOptions{
			BaseUrl: cfg.BaseUrl,
			MaxDays: cfg.MaxDays,
			Delay:   time.Duration(cfg.DelaySeconds) * time.Second,
		}
		if *scrapeDebugHttp {
			clientOpts.DebugOutput = restyutil.NewFilesystemOutput(".dev/resty/scraper")
		}
		client, err := mycinema.NewClient(ctx, clientOpts)
		if err != nil {
			serviceutil.Fatal("failed to initialize cinema client", err)
		}

		store, err := sheet.Open(ctx, sheet.Options{
			CredentialsFile: cfg.CredentialsFile,
			SpreadsheetId:   cfg.SpreadsheetId,
			Worksheet:       cfg.Worksheet,
		})
		if err != nil {
			serviceutil.Fatal("failed to open master worksheet", err)
		}

		database, err := sqliteutil.OpenDB(archive.Schema, *scrapeArchiveDb)
		if err != nil {
			serviceutil.Fatal("failed to open archive db", err)
		}
		defer database.Close()
		arc := archive.NewStore(database)

		t1 := time.Now()
		err = sync.Run(ctx, client, store, arc, sync.Options{
			MaxMovies:      cfg.MaxMovies,
			Delay:          time.Duration(cfg.DelaySeconds) * time.Second,
			CellCharBudget: cfg.CellCharBudget,
			PosterDir:      cfg.PosterDir,
		})
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("scrape run failed", err)
		}

		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds())
	},
}
