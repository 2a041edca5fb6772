package mycinema

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"cinescrape/lib/restyutil"
	"cinescrape/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/mycinema")

const nowShowingPath = "/movies/nowshowing.aspx"

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	// dates per movie the showtime walk will visit, <= 0 means all
	MaxDays int
	// wait inserted before each showtime postback
	Delay time.Duration
}

type ClientOptions struct {
	BaseUrl string
	MaxDays int
	Delay   time.Duration
	// optional sink for raw request/response dumps
	DebugOutput restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	// the site serves an interstitial block page to clients that don't
	// look like a browser
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36")
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.SetHeader("Referer", opts.BaseUrl+"/")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/mycinema/http")
	restyutil.InstrumentClient(client, opts.DebugOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
		MaxDays: opts.MaxDays,
		Delay:   opts.Delay,
	}
	return c, nil
}

// Absolute resolves a scraped href against the client's base url. A
// href that won't parse is returned untouched.
func (c *Client) Absolute(href string) string {
	link, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.BaseUrl.ResolveReference(link).String()
}

// DownloadPoster fetches `src` into `dir`, naming the file after the url
// basename. The request runs under its own timeout so one stuck image
// server can't stall the whole run.
func (c *Client) DownloadPoster(ctx context.Context, src string, dir string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadPoster")
	defer span.End()

	link, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	filename := path.Base(link.Path)
	if filename == "." || filename == "/" {
		return "", fmt.Errorf("poster url %q has no usable basename", src)
	}

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(src)
	if err != nil {
		return "", err
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("poster fetch returned status %d", res.StatusCode())
	}

	fullPath := filepath.Join(dir, filename)
	err = os.WriteFile(fullPath, res.Body(), 0644)
	if err != nil {
		return "", err
	}
	return fullPath, nil
}
