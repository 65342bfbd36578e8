package jokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/jokebox/internal/domain"
)

const sampleJoke = `{"type":"general","setup":"Why did the scarecrow win an award?","punchline":"He was outstanding in his field.","id":42}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Success(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, sampleJoke)
	c := NewClient(srv.URL, time.Second)

	joke, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, joke.ID)
	assert.Equal(t, "general", joke.Type)
	assert.Equal(t, "Why did the scarecrow win an award?", joke.Setup)
	assert.Equal(t, "He was outstanding in his field.", joke.Punchline)
}

func TestFetch_Non200IsNetworkError(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, `{"error":"down"}`)
	c := NewClient(srv.URL, time.Second)

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.NotErrorIs(t, err, domain.ErrDecode)
}

func TestFetch_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening any more

	_, err := NewClient(url, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, sampleJoke)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, time.Second).Fetch(ctx)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetch_SchemaMismatchIsDecodeError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"id":"forty-two","type":"general","setup":"a","punchline":"b"}`)

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", sampleJoke, false},
		{"extra fields ignored", `{"id":1,"type":"t","setup":"s","punchline":"p","rating":5}`, false},
		{"malformed", `{"id":1,`, true},
		{"array", `[{"id":1,"type":"t","setup":"s","punchline":"p"}]`, true},
		{"missing punchline", `{"id":1,"type":"t","setup":"s"}`, true},
		{"fractional id", `{"id":1.5,"type":"t","setup":"s","punchline":"p"}`, true},
		{"null setup", `{"id":1,"type":"t","setup":null,"punchline":"p"}`, true},
		{"empty body", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrDecode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
