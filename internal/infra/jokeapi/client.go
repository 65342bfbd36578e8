// Package jokeapi fetches jokes from the public random-joke endpoint.
// One GET per call: no retries, no caching.
package jokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tutu-network/jokebox/internal/domain"
	"github.com/tutu-network/jokebox/internal/infra/metrics"
)

// DefaultEndpoint is the official random-joke API.
const DefaultEndpoint = "https://official-joke-api.appspot.com/random_joke"

// maxBodyBytes caps how much of a response is read. A joke is a few hundred bytes.
const maxBodyBytes = 1 << 20

// Client implements domain.JokeSource over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for endpoint. A zero timeout leaves the
// transport default in place.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the URL this client fetches from.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch issues a single GET and decodes the body into a Joke.
// Transport failures and non-200 responses wrap domain.ErrNetwork;
// bodies that do not match the joke schema wrap domain.ErrDecode.
func (c *Client) Fetch(ctx context.Context) (domain.Joke, error) {
	start := time.Now()
	joke, err := c.fetch(ctx)
	metrics.FetchLatency.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.FetchesTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, domain.ErrDecode):
		metrics.FetchesTotal.WithLabelValues("decode_error").Inc()
	default:
		metrics.FetchesTotal.WithLabelValues("network_error").Inc()
	}
	return joke, err
}

func (c *Client) fetch(ctx context.Context) (domain.Joke, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return domain.Joke{}, fmt.Errorf("%w: create request: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jokebox/0.1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Joke{}, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Joke{}, fmt.Errorf("%w: HTTP %d from %s", domain.ErrNetwork, resp.StatusCode, c.endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Joke{}, fmt.Errorf("%w: read body: %w", domain.ErrNetwork, err)
	}

	return Decode(body)
}

// Decode validates body against the joke schema and decodes it.
// Every field must be present with the right JSON type and id must be integral.
func Decode(body []byte) (domain.Joke, error) {
	if !gjson.ValidBytes(body) {
		return domain.Joke{}, fmt.Errorf("%w: malformed JSON", domain.ErrDecode)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.Joke{}, fmt.Errorf("%w: expected object, got %s", domain.ErrDecode, root.Type)
	}

	fields := gjson.GetManyBytes(body, "id", "type", "setup", "punchline")
	id := fields[0]
	if id.Type != gjson.Number || id.Num != math.Trunc(id.Num) {
		return domain.Joke{}, fmt.Errorf("%w: field id must be an integer", domain.ErrDecode)
	}
	for i, name := range []string{"type", "setup", "punchline"} {
		if fields[i+1].Type != gjson.String {
			return domain.Joke{}, fmt.Errorf("%w: field %s must be a string", domain.ErrDecode, name)
		}
	}

	var joke domain.Joke
	if err := json.Unmarshal(body, &joke); err != nil {
		return domain.Joke{}, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	return joke, nil
}

var _ domain.JokeSource = (*Client)(nil)
