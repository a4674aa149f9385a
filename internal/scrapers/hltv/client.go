package hltv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hltv-ranking/internal/components/assert"
	"hltv-ranking/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/net/html/charset"
)

const (
	report_client_fetch    = "client.fetch"
	report_client_snapshot = "client.snapshot"
	report_client_teams    = "client.teams"
)

var tracer = otel.Tracer("scrapers/hltv")

var meter = otel.Meter("scrapers/hltv")
var teamsCounter, _ = meter.Int64Counter("hltv.teams.parsed")
var playersCounter, _ = meter.Int64Counter("hltv.players.parsed")

type ClientOptions struct {
	// BaseUrl defaults to SiteOrigin.
	BaseUrl   string
	UserAgent string
	// Timeout of zero means no timeout.
	Timeout          time.Duration
	CloudflareBypass bool
	// HttpOutput receives the full text of every request made, it can be nil.
	HttpOutput telemetry.InstrumentOutput
}

type Client struct {
	baseUrl string
	http    *resty.Client
	tel     telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("hltv_scraper", tel)

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = SiteOrigin
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	telemetry.InstrumentResty(httpClient, tel, opts.HttpOutput)

	return &Client{
		baseUrl: baseUrl,
		http:    httpClient,
		tel:     tel,
	}
}

func (c *Client) RankingUrl(target Target) string {
	return RankingUrl(c.baseUrl, target)
}

// FetchDocument makes a single GET request to `url` and parses the response as html.
func (c *Client) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDocument")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		err := &StatusError{Url: url, StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_fetch, err)
		return nil, err
	}

	body, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("content-type"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode body")
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// ParseSnapshot reads the ranking date and teams out of a ranking page.
func ParseSnapshot(doc *goquery.Document) (Snapshot, error) {
	date, err := ParseRankingDate(doc.Selection)
	if err != nil {
		return Snapshot{}, fmt.Errorf("ranking date: %w", err)
	}
	teams, err := ParseTeams(doc.Selection)
	if err != nil {
		return Snapshot{}, fmt.Errorf("teams: %w", err)
	}
	return Snapshot{Date: date, Teams: teams}, nil
}

// Snapshot fetches and parses the ranking page for `target`.
func (c *Client) Snapshot(ctx context.Context, target Target) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "client:Snapshot")
	defer span.End()

	url := c.RankingUrl(target)
	span.SetAttributes(
		attribute.String("target", target.String()),
		attribute.String("url", url),
	)

	doc, err := c.FetchDocument(ctx, url)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot, err := ParseSnapshot(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse ranking")
		if errors.Is(err, ErrPageStructure) {
			c.tel.ReportBroken(report_client_snapshot, err, url)
		}
		return Snapshot{}, fmt.Errorf("%s: %w", url, err)
	}

	var players int64
	for _, t := range snapshot.Teams {
		players += int64(len(t.Players))
	}
	teamsCounter.Add(ctx, int64(len(snapshot.Teams)))
	playersCounter.Add(ctx, players, metric.WithAttributes(attribute.Bool("latest", target.IsLatest())))
	c.tel.ReportCount(report_client_teams, int64(len(snapshot.Teams)))

	return snapshot, nil
}
