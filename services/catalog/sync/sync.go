// Package sync drives one scrape run end to end: listing, per-movie
// record building, reconciliation with the persisted collection, and
// the wholesale write-back.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cinescrape/lib/scrapers/mycinema"
	"cinescrape/lib/timezone"
	"cinescrape/services/catalog"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("catalog/sync")

type CollectionStore interface {
	Read(ctx context.Context) (map[string]catalog.MovieRecord, error)
	Write(ctx context.Context, records []catalog.MovieRecord) error
}

type Archiver interface {
	Push(ctx context.Context, runStartedAt time.Time, records []catalog.MovieRecord) error
}

type Options struct {
	// movies taken from the listing, <= 0 means all
	MaxMovies int
	// wait inserted before each movie's detail fetch
	Delay time.Duration
	// cap on the showtime cell, <= 0 falls back to the default
	CellCharBudget int
	// posters land under PosterDir/<year>_<month>
	PosterDir string
}

// Run executes one batch scrape. Failures below the run level are
// contained where they happen: a movie that can't be built is skipped,
// an unreadable collection means a first run, an archive miss is only
// logged. The sheet is rewritten only after a successful merge, and
// only when the run produced at least one fresh record.
func Run(ctx context.Context, client *mycinema.Client, store CollectionStore, arc Archiver, opts Options) error {
	ctx, span := tracer.Start(ctx, "sync:Run")
	defer span.End()

	runStart := timezone.Now()
	budget := opts.CellCharBudget
	if budget <= 0 {
		budget = catalog.DefaultCellCharBudget
	}

	existing, err := store.Read(ctx)
	if err != nil {
		slog.WarnContext(ctx, "could not read master worksheet, assuming first run", "err", err)
		existing = map[string]catalog.MovieRecord{}
	}

	entries, err := client.Listing(ctx)
	if err != nil {
		return fmt.Errorf("fetch movie listing: %w", err)
	}
	if opts.MaxMovies > 0 && len(entries) > opts.MaxMovies {
		entries = entries[:opts.MaxMovies]
	}

	posterDir := filepath.Join(opts.PosterDir, timezone.MonthDir(runStart))

	var fresh []catalog.MovieRecord
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Delay):
		}

		record, err := buildRecord(ctx, client, entry, posterDir, budget)
		if err != nil {
			slog.WarnContext(ctx, "failed to build movie record, skipping",
				"title", entry.Title, "err", err)
			continue
		}
		fresh = append(fresh, record)
	}

	if len(fresh) == 0 {
		slog.InfoContext(ctx, "no fresh data scraped, master worksheet unchanged")
		return nil
	}

	merged := catalog.Merge(existing, fresh)

	if arc != nil {
		err = arc.Push(ctx, runStart, merged)
		if err != nil {
			slog.WarnContext(ctx, "failed to archive merged generation", "err", err)
		}
	}

	return store.Write(ctx, merged)
}

// buildRecord assembles one movie: detail page, showtime walk, poster
// download. Showtime and poster failures degrade to absent fields; only
// an unusable detail page fails the record.
func buildRecord(ctx context.Context, client *mycinema.Client, entry mycinema.ListingEntry, posterDir string, budget int) (catalog.MovieRecord, error) {
	ctx, span := tracer.Start(ctx, "sync:buildRecord")
	defer span.End()

	slog.InfoContext(ctx, "processing movie", "title", entry.Title)

	detail, err := client.Detail(ctx, entry.Href)
	if err != nil {
		return catalog.MovieRecord{}, err
	}

	record := catalog.MovieRecord{
		Title:          entry.Title,
		URL:            client.Absolute(entry.Href),
		Description:    detail.Description,
		RuntimeMinutes: detail.RuntimeMinutes,
		ReleaseDate:    detail.ReleaseDate,
		Language:       detail.Language,
		Genre:          detail.Genre,
		Distributor:    detail.Distributor,
		Classification: detail.Classification,
		Cast:           detail.Cast,
		Director:       detail.Director,
		Format:         detail.Format,
		PosterURL:      detail.PosterURL,
		ScrapeDate:     timezone.Stamp(timezone.Now()),
	}

	if detail.PosterURL != "" {
		localPath, err := client.DownloadPoster(ctx, detail.PosterURL, posterDir)
		if err != nil {
			slog.WarnContext(ctx, "failed to download poster",
				"title", entry.Title, "url", detail.PosterURL, "err", err)
		} else {
			record.LocalPosterPath = localPath
		}
	}

	if detail.ShowtimesHref != "" {
		cinemas, err := client.Showtimes(ctx, detail.ShowtimesHref)
		switch {
		case err != nil:
			// a failed walk never sinks the record
			slog.WarnContext(ctx, "showtime walk failed",
				"title", entry.Title, "err", err)
		case len(cinemas) > 0:
			payload, err := mycinema.EncodeShowtimes(cinemas)
			if err != nil {
				slog.WarnContext(ctx, "failed to encode showtimes",
					"title", entry.Title, "err", err)
			} else {
				if len(payload) > budget {
					slog.WarnContext(ctx, "showtime payload over cell budget, truncating",
						"title", entry.Title, "length", len(payload))
				}
				record.ShowtimesData = catalog.Truncate(payload, budget)
				record.CinemaCount = len(cinemas)
			}
		}
	}

	return record, nil
}
