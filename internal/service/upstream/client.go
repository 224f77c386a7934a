package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"StatPull/internal/domain/models"
	domrepo "StatPull/internal/domain/repository"
	xhttp "StatPull/pkg/http"
	"StatPull/pkg/util"

	"github.com/tidwall/gjson"
)

// Client talks to the evaluation service. Every call is a single GET bounded
// by the configured timeout; nothing is retried.
type Client struct {
	baseURL     string
	token       string
	numberPaths map[string]string
	client      *xhttp.Client
	metrics     domrepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithMetrics records fetch outcomes.
func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New creates a Client. numberPaths maps number IDs (p, f, e, r) to resource paths.
func New(baseURL, token string, timeout time.Duration, numberPaths map[string]string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		numberPaths: numberPaths,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
	return c
}

// FetchNumbers returns the `numbers` array of the resource behind id.
func (c *Client) FetchNumbers(ctx context.Context, id string) ([]float64, error) {
	path, ok := c.numberPaths[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownNumberID, id)
	}

	start := time.Now()
	body, err := c.get(ctx, path, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}

	nums, perr := parseNumbers(body)
	if perr != nil {
		perr.Resource = path
		c.record(path, string(KindSchema), time.Since(start))
		return nil, perr
	}
	c.record(path, "ok", time.Since(start))
	return nums, nil
}

// FetchPrices returns the ticker's prices over the last minutes, sorted ascending.
func (c *Client) FetchPrices(ctx context.Context, ticker string, minutes int) (models.PriceSeries, error) {
	resource := "stocks"
	u := c.baseURL + "/stocks/" + url.PathEscape(ticker)
	q := map[string][]string{"minutes": {strconv.Itoa(minutes)}}

	start := time.Now()
	body, err := c.get(ctx, resource, u, q)
	if err != nil {
		return nil, err
	}

	series, perr := parsePrices(body)
	if perr != nil {
		perr.Resource = resource
		c.record(resource, string(KindSchema), time.Since(start))
		return nil, perr
	}
	c.record(resource, "ok", time.Since(start))
	return series, nil
}

func (c *Client) get(ctx context.Context, resource, u string, query map[string][]string) ([]byte, error) {
	// Only the client timeout bounds the call; a departed caller does not cancel it.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         u,
		Headers:     xhttp.BearerHeaders(c.token),
		QueryParams: query,
	}, &body)
	if err != nil {
		ue := classify(resource, err)
		c.record(resource, string(ue.Kind), time.Since(start))
		return nil, ue
	}
	return body, nil
}

func (c *Client) record(resource, outcome string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamFetch(resource, outcome, elapsed.Seconds())
	}
}

func parseNumbers(body []byte) ([]float64, *Error) {
	if !gjson.ValidBytes(body) {
		return nil, schemaError("", "body is not valid JSON")
	}
	arr := gjson.GetBytes(body, "numbers")
	if !arr.IsArray() {
		return nil, schemaError("", "missing 'numbers' array")
	}

	items := arr.Array()
	out := make([]float64, 0, len(items))
	for i, v := range items {
		if v.Type != gjson.Number {
			return nil, schemaError("", "numbers[%d] is not a number", i)
		}
		f := v.Float()
		if !finite(f) {
			return nil, schemaError("", "numbers[%d] is not finite", i)
		}
		out = append(out, f)
	}
	return out, nil
}

func parsePrices(body []byte) (models.PriceSeries, *Error) {
	if !gjson.ValidBytes(body) {
		return nil, schemaError("", "body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, schemaError("", "expected a JSON array of prices")
	}

	items := root.Array()
	out := make(models.PriceSeries, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, schemaError("", "item %d is not an object", i)
		}
		price := item.Get("price")
		if price.Type != gjson.Number {
			return nil, schemaError("", "item %d has no numeric price", i)
		}
		if !finite(price.Float()) {
			return nil, schemaError("", "item %d has a non-finite price", i)
		}
		raw := item.Get("lastUpdatedAt")
		if !raw.Exists() || raw.String() == "" {
			return nil, schemaError("", "item %d has no lastUpdatedAt", i)
		}
		ts, ok := util.ParseTime(raw.String())
		if !ok {
			return nil, schemaError("", "item %d has unparseable lastUpdatedAt %q", i, raw.String())
		}
		out = append(out, models.PricePoint{
			Price:         price.Float(),
			LastUpdatedAt: ts,
			RawUpdatedAt:  json.RawMessage(raw.Raw),
		})
	}

	slices.SortStableFunc(out, func(a, b models.PricePoint) int {
		return a.LastUpdatedAt.Compare(b.LastUpdatedAt)
	})
	return out, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
