package mycinema

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, nowShowingPath, r.URL.Path)
		fmt.Fprint(w, `<html><body>
			<div class="MovieWrap">
				<div class="mov-lg"><a href="/movies/details.aspx?id=1">The  First
				Movie</a></div>
			</div>
			<div class="MovieWrap">
				<div class="mov-sm"><a href="/movies/details.aspx?id=2">Second Movie</a></div>
			</div>
			<div class="MovieWrap"><div class="mov-lg">no anchor here</div></div>
		</body></html>`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 5)
	entries, err := client.Listing(context.Background())
	require.NoError(t, err)
	require.Equal(t, []ListingEntry{
		{Title: "The First Movie", Href: "/movies/details.aspx?id=1"},
		{Title: "Second Movie", Href: "/movies/details.aspx?id=2"},
	}, entries)
}

func TestDownloadPoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/images/posters/poster.jpg":
			w.Write([]byte("jpegbytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 5)
	dir := t.TempDir()

	path, err := client.DownloadPoster(context.Background(), "/images/posters/poster.jpg", dir)
	require.NoError(t, err)
	require.FileExists(t, path)

	_, err = client.DownloadPoster(context.Background(), "/images/posters/missing.jpg", dir)
	require.Error(t, err)
}
