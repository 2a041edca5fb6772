package mycinema

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func docFromString(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

const detailPage = `<html><body>
<div id="MovieSec">
	<div class="con-lg">
		<img id="ctl00_cphContent_imgPoster" src="/images/posters/the-heist.jpg"/>
		A ragtag crew attempts one last job before the monsoon season closes every road out of the city.
		<br/>
		<span>Language : English</span>
		<span>Classification : P13</span>
		<span>Release Date : 25 Dec 2024</span>
		<span>Genre : Action / Thriller</span>
		<span>Running Time : 2 Hours 15 Minutes</span>
		<span>Distributor : GSC Movies</span>
		<span>Cast : Amir Rahman, Mei Ling</span>
		<span>Director : S. Kumar</span>
		<a href="/movies/trailer.aspx?id=9">Trailer</a>
		<a href="/movies/showtimes.aspx?id=9">SHOWTIMES &amp; Tickets</a>
	</div>
</div>
</body></html>`

func TestExtractDetail(t *testing.T) {
	doc := docFromString(t, detailPage)
	d, err := ExtractDetail(context.Background(), doc)
	require.NoError(t, err)

	require.Equal(t, "A ragtag crew attempts one last job before the monsoon season closes every road out of the city.", d.Description)
	require.Equal(t, "English", d.Language)
	require.Equal(t, "P13", d.Classification)
	require.Equal(t, "2024-12-25", d.ReleaseDate)
	require.Equal(t, "Action / Thriller", d.Genre)
	require.Equal(t, 135, d.RuntimeMinutes)
	require.Equal(t, "GSC Movies", d.Distributor)
	require.Equal(t, "Amir Rahman, Mei Ling", d.Cast)
	require.Equal(t, "S. Kumar", d.Director)
	// no Format line on this page, the other rules are unaffected
	require.Equal(t, "", d.Format)
	require.Equal(t, "/images/posters/the-heist.jpg", d.PosterURL)
	require.Equal(t, "/movies/showtimes.aspx?id=9", d.ShowtimesHref)
}

func TestExtractDetailAllAbsent(t *testing.T) {
	doc := docFromString(t, `<html><body><div class="con-lg"><span>tiny</span></div></body></html>`)
	d, err := ExtractDetail(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, Detail{}, d)
}

func TestExtractDetailMissingContainer(t *testing.T) {
	doc := docFromString(t, `<html><body><p>nothing here</p></body></html>`)
	_, err := ExtractDetail(context.Background(), doc)
	require.Error(t, err)
}

func TestParseRuntime(t *testing.T) {
	cases := []struct {
		in       string
		expected int
	}{
		{"2 Hours 15 Minutes", 135},
		{"1 Hour 1 Minute", 61},
		{"95 Minutes", 95},
		{"2 Hours", 120},
		{"TBA", 0},
		{"", 0},
		{"0 Hours 0 Minutes", 0},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, parseRuntime(test.in), "input %q", test.in)
	}
}

func TestParseReleaseDate(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"25 Dec 2024", "2024-12-25"},
		{"5 Jan 2025", "2025-01-05"},
		{" 25 Dec 2024 ", "2024-12-25"},
		{"TBA", ""},
		{"", ""},
		{"December 25, 2024", ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, parseReleaseDate(test.in), "input %q", test.in)
	}
}
