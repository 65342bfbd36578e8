package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/domain"
)

// bridgeClient runs commands through the HTTP bridge of a running
// 'jokebox serve', so the serving engine stays the only writer.
type bridgeClient struct {
	base string
	http *http.Client
}

func newBridgeClient(addr string) *bridgeClient {
	return &bridgeClient{
		base: "http://" + addr,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// ping checks that something answers /health. A degraded bridge still
// counts as up.
func (b *bridgeClient) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// do sends one request and decodes a 2xx body into out. Error bodies are
// mapped back onto the domain sentinels by their type.
func (b *bridgeClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.base+path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("bridge %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("bridge %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		return resp.StatusCode, bridgeError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("bridge %s %s: decode: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func bridgeError(status int, body []byte) error {
	fields := gjson.GetManyBytes(body, "error.type", "error.message")
	kind, msg := fields[0].String(), fields[1].String()
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch kind {
	case "network":
		sentinel = domain.ErrNetwork
	case "decode":
		sentinel = domain.ErrDecode
	case "deck_empty":
		sentinel = domain.ErrDeckEmpty
	case "invalid_preference":
		sentinel = domain.ErrInvalidPreference
	}
	if sentinel != nil {
		return fmt.Errorf("%w (bridge: %s)", sentinel, msg)
	}
	return fmt.Errorf("bridge: HTTP %d: %s", status, msg)
}

func (b *bridgeClient) FetchJoke(ctx context.Context) (domain.Joke, bool, error) {
	var out struct {
		Joke       domain.Joke `json:"joke"`
		IsFavorite bool        `json:"is_favorite"`
	}
	if _, err := b.do(ctx, http.MethodPost, "/api/jokes/fetch", nil, &out); err != nil {
		return domain.Joke{}, false, err
	}
	return out.Joke, out.IsFavorite, nil
}

func (b *bridgeClient) Read(ctx context.Context) (domain.ReadResult, error) {
	var res domain.ReadResult
	_, err := b.do(ctx, http.MethodPost, "/api/jokes/read", nil, &res)
	return res, err
}

func (b *bridgeClient) AddFavorite(ctx context.Context, joke domain.Joke) (bool, []domain.Achievement, error) {
	var out struct {
		Added    bool                 `json:"added"`
		Unlocked []domain.Achievement `json:"unlocked"`
	}
	if _, err := b.do(ctx, http.MethodPost, "/api/favorites", joke, &out); err != nil {
		return false, nil, err
	}
	return out.Added, out.Unlocked, nil
}

func (b *bridgeClient) RemoveFavorite(ctx context.Context, jokeID int) (bool, error) {
	status, err := b.do(ctx, http.MethodDelete, "/api/favorites/"+strconv.Itoa(jokeID), nil, nil)
	if status == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

func (b *bridgeClient) State(ctx context.Context) (domain.State, error) {
	var state domain.State
	_, err := b.do(ctx, http.MethodGet, "/api/state", nil, &state)
	return state, err
}

func (b *bridgeClient) Summary(ctx context.Context) (domain.Summary, error) {
	var s domain.Summary
	_, err := b.do(ctx, http.MethodGet, "/api/summary", nil, &s)
	return s, err
}

func (b *bridgeClient) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	var out struct {
		Achievements []domain.Achievement `json:"achievements"`
	}
	_, err := b.do(ctx, http.MethodGet, "/api/achievements", nil, &out)
	return out.Achievements, err
}

func (b *bridgeClient) Preferences(ctx context.Context) (domain.Preferences, error) {
	var p domain.Preferences
	_, err := b.do(ctx, http.MethodGet, "/api/preferences", nil, &p)
	return p, err
}

func (b *bridgeClient) SetPreference(ctx context.Context, name, value string) (domain.Preferences, error) {
	var p domain.Preferences
	_, err := b.do(ctx, http.MethodPut, "/api/preferences/"+url.PathEscape(name), map[string]string{"value": value}, &p)
	return p, err
}

func (b *bridgeClient) DealDeck(ctx context.Context) ([]domain.Card, error) {
	var out struct {
		Cards []domain.Card `json:"cards"`
	}
	_, err := b.do(ctx, http.MethodPost, "/api/deck/preload", nil, &out)
	return out.Cards, err
}

func (b *bridgeClient) TopCard(ctx context.Context) (domain.Card, bool, error) {
	var out struct {
		Cards []domain.Card `json:"cards"`
	}
	if _, err := b.do(ctx, http.MethodGet, "/api/deck", nil, &out); err != nil {
		return domain.Card{}, false, err
	}
	if len(out.Cards) == 0 {
		return domain.Card{}, false, nil
	}
	return out.Cards[0], true, nil
}

func (b *bridgeClient) Swipe(ctx context.Context, dir domain.SwipeDirection) (engagement.SwipeResult, error) {
	var res engagement.SwipeResult
	_, err := b.do(ctx, http.MethodPost, "/api/deck/swipe", map[string]string{"direction": string(dir)}, &res)
	return res, err
}

func (b *bridgeClient) Close() {}
