package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("cinescrape.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText normalizes scraped text into a single trimmed line. Runs of
// whitespace collapse before the non-printable strip so a linebreak
// inside a name still separates its words.
func CleanText(s string) string {
	s = innerWhitespace.ReplaceAllString(s, " ")
	s = removeNonPrintable(s)
	return strings.Trim(s, " ")
}

func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := CleanText(GetText(n))

		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// FirstDirectText returns the first text node sitting immediately under
// sel (not inside child elements) whose trimmed form is longer than
// minLen, or "" when no such node exists.
func FirstDirectText(sel *goquery.Selection, minLen int) string {
	for _, n := range sel.Nodes {
		child := n.FirstChild
		for child != nil {
			if child.Type == html.TextNode {
				text := strings.TrimSpace(child.Data)
				if len(text) > minLen {
					return text
				}
			}
			child = child.NextSibling
		}
	}
	return ""
}

// FlattenText renders all text below sel with element boundaries turned
// into newlines, so line-anchored patterns can run against "Label: value"
// rows regardless of the markup around them.
func FlattenText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		flattenRecursive(n, &buffer)
	}
	return buffer.String()
}

func flattenRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		flattenRecursive(child, buffer)
		child = child.NextSibling
	}
	if node.Type == html.ElementNode {
		buffer.WriteString("\n")
	}
}
