package mycinema

import (
	"bytes"
	"context"
	"log/slog"

	"cinescrape/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type ListingEntry struct {
	Title string
	Href  string
}

// Listing fetches the now-showing index and returns one entry per movie
// block, in document order. Blocks without a title anchor are skipped.
func (c *Client) Listing(ctx context.Context) ([]ListingEntry, error) {
	ctx, span := tracer.Start(ctx, "client:Listing")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(nowShowingPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var entries []ListingEntry
	doc.Find("div.MovieWrap").Each(func(_ int, wrap *goquery.Selection) {
		anchor := wrap.Find(".mov-lg a, .mov-sm a").First()
		if anchor.Length() == 0 {
			slog.DebugContext(ctx, "listing block without a title anchor, skipping")
			return
		}

		title := htmlutil.CleanText(anchor.Text())
		if title == "" {
			return
		}
		entries = append(entries, ListingEntry{
			Title: title,
			Href:  anchor.AttrOr("href", ""),
		})
	})

	slog.InfoContext(ctx, "fetched movie listing", "movies", len(entries))
	return entries, nil
}
