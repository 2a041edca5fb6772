package mycinema

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cinescrape/lib/htmlutil"
	"cinescrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const descriptionMinLen = 50

// Detail is everything a movie's dedicated page yields. Absent string
// fields are "", absent RuntimeMinutes is 0; nothing here carries the
// sheet's "N/A" marker.
type Detail struct {
	Description    string
	Language       string
	Classification string
	// ISO form (2006-01-02), "" when the page's date didn't parse
	ReleaseDate    string
	Genre          string
	RuntimeMinutes int
	Distributor    string
	Cast           string
	Director       string
	Format         string
	PosterURL      string
	ShowtimesHref  string
}

// one independently evaluated "Label : value" extraction; a rule that
// doesn't match leaves its field absent and never disturbs the others
type fieldRule struct {
	pattern *regexp.Regexp
	assign  func(d *Detail, value string)
}

func labeledLine(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^[ \t]*` + regexp.QuoteMeta(label) + `\s*:\s*(.+)`)
}

var fieldRules = []fieldRule{
	{labeledLine("Language"), func(d *Detail, v string) { d.Language = v }},
	{labeledLine("Classification"), func(d *Detail, v string) { d.Classification = v }},
	{labeledLine("Release Date"), func(d *Detail, v string) { d.ReleaseDate = parseReleaseDate(v) }},
	{labeledLine("Genre"), func(d *Detail, v string) { d.Genre = v }},
	{labeledLine("Running Time"), func(d *Detail, v string) { d.RuntimeMinutes = parseRuntime(v) }},
	{labeledLine("Distributor"), func(d *Detail, v string) { d.Distributor = v }},
	{labeledLine("Cast"), func(d *Detail, v string) { d.Cast = v }},
	{labeledLine("Director"), func(d *Detail, v string) { d.Director = v }},
	{labeledLine("Format"), func(d *Detail, v string) { d.Format = v }},
}

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*Hours?`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*Minutes?`)
)

func parseRuntime(text string) int {
	total := 0
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return total
}

const pageDateLayout = "2 Jan 2006"

func parseReleaseDate(text string) string {
	parsed, err := time.Parse(pageDateLayout, strings.TrimSpace(text))
	if err != nil {
		// "TBA" and friends end up here, that's an absent date
		return ""
	}
	return parsed.Format("2006-01-02")
}

// ExtractDetail pulls the metadata fields out of a detail page's markup.
// Pure function of the input, exposed separately from the fetch so the
// extraction rules are testable against captured pages.
func ExtractDetail(ctx context.Context, doc *goquery.Document) (Detail, error) {
	ctx, span := tracer.Start(ctx, "ExtractDetail")
	defer span.End()

	container := doc.Find(".con-lg").First()
	if container.Length() == 0 {
		err := fmt.Errorf("detail page has no content container")
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing container")
		return Detail{}, err
	}

	var d Detail
	d.Description = htmlutil.FirstDirectText(container, descriptionMinLen)

	flat := htmlutil.FlattenText(container)
	for _, rule := range fieldRules {
		m := rule.pattern.FindStringSubmatch(flat)
		if m == nil {
			continue
		}
		rule.assign(&d, strings.TrimSpace(m[1]))
	}

	d.PosterURL = doc.Find("#ctl00_cphContent_imgPoster").AttrOr("src", "")

	for _, a := range htmlutil.GetAnchors(ctx, doc.Find("#MovieSec .con-lg a")) {
		if textutil.MatchName(a.Name, []string{"showtimes"}) {
			d.ShowtimesHref = a.Href
			break
		}
	}

	return d, nil
}

// Detail fetches a movie's dedicated page and extracts its fields.
func (c *Client) Detail(ctx context.Context, href string) (Detail, error) {
	ctx, span := tracer.Start(ctx, "client:Detail")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(href)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Detail{}, err
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("detail page returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Detail{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Detail{}, err
	}

	return ExtractDetail(ctx, doc)
}
