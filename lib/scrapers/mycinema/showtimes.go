package mycinema

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// the ASP.NET control ids driving the date-selector postback
const (
	dateSelectorId     = "ctl00_cphContent_ctl00_ddlShowdate"
	dateSelectorTarget = "ctl00$cphContent$ctl00$ddlShowdate"
)

type Showing struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type CinemaShowings struct {
	CinemaName string    `json:"cinemaName"`
	Showings   []Showing `json:"showings"`
}

// EncodeShowtimes renders the aggregated table in the compact JSON form
// the sheet cell carries.
func EncodeShowtimes(cinemas []CinemaShowings) (string, error) {
	encoded, err := json.Marshal(cinemas)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// the server-issued blobs every postback must echo back; they rotate
// between responses, so the walk threads this state explicitly instead
// of holding it on the client
type postbackState struct {
	viewState       string
	eventValidation string
}

func postbackStateFromPage(doc *goquery.Document) postbackState {
	// either blob can be missing, an empty echo is still accepted
	return postbackState{
		viewState:       doc.Find("#__VIEWSTATE").AttrOr("value", ""),
		eventValidation: doc.Find("#__EVENTVALIDATION").AttrOr("value", ""),
	}
}

func (s postbackState) refresh(doc *goquery.Document) postbackState {
	if v := doc.Find("#__VIEWSTATE").AttrOr("value", ""); v != "" {
		s.viewState = v
	}
	if v := doc.Find("#__EVENTVALIDATION").AttrOr("value", ""); v != "" {
		s.eventValidation = v
	}
	return s
}

type dateOption struct {
	value string
	label string
}

// one page's worth of showtimes: cinema name -> deduplicated sorted
// time labels, with first-appearance order kept for the final payload
type daySchedule struct {
	date    string
	order   []string
	cinemas map[string][]string
}

// Showtimes walks the date-selector postback sequence of one movie's
// showtime page and returns the per-cinema aggregation across all
// visited dates. A page without a date selector is a movie with no
// schedule yet: the result is (nil, nil), not an error. A rejected
// postback stops the walk but keeps the dates already collected.
func (c *Client) Showtimes(ctx context.Context, href string) ([]CinemaShowings, error) {
	ctx, span := tracer.Start(ctx, "client:Showtimes")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(href)
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

	selector := doc.Find("#" + dateSelectorId)
	if selector.Length() == 0 {
		slog.DebugContext(ctx, "no date selector on showtime page", "url", href)
		return nil, nil
	}

	var dates []dateOption
	selector.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value, ok := opt.Attr("value")
		if !ok || value == "" {
			return
		}
		dates = append(dates, dateOption{
			value: value,
			label: strings.TrimSpace(opt.Text()),
		})
	})
	if c.MaxDays > 0 && len(dates) > c.MaxDays {
		dates = dates[:c.MaxDays]
	}
	if len(dates) == 0 {
		return nil, nil
	}

	state := postbackStateFromPage(doc)

	// the first date's table is pre-rendered in the initial response
	slog.DebugContext(ctx, "processing showtime date", "date", dates[0].label)
	days := []daySchedule{parseShowtimePage(doc, dates[0].label)}

	for _, date := range dates[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}

		slog.DebugContext(ctx, "processing showtime date", "date", date.label)
		res, err := c.Http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"__EVENTTARGET":     dateSelectorTarget,
				"__EVENTARGUMENT":   "",
				"__LASTFOCUS":       "",
				"__VIEWSTATE":       state.viewState,
				"__EVENTVALIDATION": state.eventValidation,
				dateSelectorTarget:  date.value,
			}).
			Post(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "postback failed")
			return nil, err
		}
		if !res.IsSuccess() {
			// keep whatever was collected, the remaining dates are lost
			slog.WarnContext(ctx, "postback rejected, stopping date walk",
				"status", res.StatusCode(), "date", date.label, "url", href)
			break
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse postback html")
			return nil, err
		}

		days = append(days, parseShowtimePage(doc, date.label))
		state = state.refresh(doc)
	}

	return aggregateDays(days), nil
}

// parseShowtimePage scans the showtime container in document order: a
// cinema anchor's bolded text opens a new cinema context, a following
// div contributes its time labels to it. Labels seen before any cinema
// are dropped.
func parseShowtimePage(doc *goquery.Document, date string) daySchedule {
	day := daySchedule{
		date:    date,
		cinemas: map[string][]string{},
	}

	current := ""
	doc.Find("#ShowtimesList > a, #ShowtimesList > div").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "a" {
			name := strings.TrimSpace(sel.Find("b").First().Text())
			if name == "" {
				return
			}
			current = name
			if _, seen := day.cinemas[current]; !seen {
				day.cinemas[current] = nil
				day.order = append(day.order, current)
			}
			return
		}

		if current == "" {
			return
		}
		sel.Find("div.showbox a, div.showbox").Each(func(_ int, t *goquery.Selection) {
			label := strings.TrimSpace(t.Text())
			if label != "" {
				day.cinemas[current] = append(day.cinemas[current], label)
			}
		})
	})

	for name, labels := range day.cinemas {
		day.cinemas[name] = dedupeSorted(labels)
	}
	return day
}

// the showbox selector matches both the box and the anchors inside it,
// so the same label usually arrives twice per screening
func dedupeSorted(labels []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// aggregateDays flips date -> cinema into cinema -> date, cinemas in
// first-seen order across the walk, showings in date visit order.
func aggregateDays(days []daySchedule) []CinemaShowings {
	var order []string
	byCinema := map[string]*CinemaShowings{}

	for _, day := range days {
		for _, name := range day.order {
			entry, ok := byCinema[name]
			if !ok {
				entry = &CinemaShowings{CinemaName: name}
				byCinema[name] = entry
				order = append(order, name)
			}
			entry.Showings = append(entry.Showings, Showing{
				Date:  day.date,
				Times: day.cinemas[name],
			})
		}
	}

	out := make([]CinemaShowings, len(order))
	for i, name := range order {
		out[i] = *byCinema[name]
	}
	return out
}
