package catalog

import (
	"log/slog"
	"sort"
)

func present(v string) bool {
	return v != "" && v != Sentinel
}

// mergeRecord folds a freshly scraped record into its previously known
// version, field by field: a fresh value wins only when it is actually
// there, so a transient extraction miss never erases known-good data.
// The scrape date always follows the fresh run.
func mergeRecord(old, fresh MovieRecord) MovieRecord {
	out := old
	if present(fresh.URL) {
		out.URL = fresh.URL
	}
	if present(fresh.Description) {
		out.Description = fresh.Description
	}
	if fresh.RuntimeMinutes > 0 {
		out.RuntimeMinutes = fresh.RuntimeMinutes
	}
	if present(fresh.ReleaseDate) {
		out.ReleaseDate = fresh.ReleaseDate
	}
	if present(fresh.Language) {
		out.Language = fresh.Language
	}
	if present(fresh.Genre) {
		out.Genre = fresh.Genre
	}
	if present(fresh.Distributor) {
		out.Distributor = fresh.Distributor
	}
	if present(fresh.Classification) {
		out.Classification = fresh.Classification
	}
	if present(fresh.Cast) {
		out.Cast = fresh.Cast
	}
	if present(fresh.Director) {
		out.Director = fresh.Director
	}
	if present(fresh.Format) {
		out.Format = fresh.Format
	}
	if fresh.CinemaCount > 0 {
		out.CinemaCount = fresh.CinemaCount
	}
	if present(fresh.PosterURL) {
		out.PosterURL = fresh.PosterURL
	}
	if present(fresh.LocalPosterPath) {
		out.LocalPosterPath = fresh.LocalPosterPath
	}
	if present(fresh.ShowtimesData) {
		out.ShowtimesData = fresh.ShowtimesData
	}
	out.ScrapeDate = fresh.ScrapeDate
	return out
}

// Merge reconciles a fresh scrape batch into the previously persisted
// collection and returns the next generation, sorted by title. Titles
// only in `existing` survive unchanged; duplicate titles within one
// batch collide last-wins.
func Merge(existing map[string]MovieRecord, fresh []MovieRecord) []MovieRecord {
	merged := make(map[string]MovieRecord, len(existing)+len(fresh))
	for title, record := range existing {
		merged[title] = record
	}

	updated, added := 0, 0
	for _, record := range fresh {
		if old, ok := merged[record.Title]; ok {
			merged[record.Title] = mergeRecord(old, record)
			updated++
		} else {
			merged[record.Title] = record
			added++
		}
	}
	slog.Info("merged fresh scrape into collection",
		"existing", len(existing), "updated", updated, "new", added)

	out := make([]MovieRecord, 0, len(merged))
	for _, record := range merged {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})
	return out
}
