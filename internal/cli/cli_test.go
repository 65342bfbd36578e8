package cli

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/jokebox/internal/daemon"
	"github.com/tutu-network/jokebox/internal/domain"
)

// newHome points JOKEBOX_HOME at a temp dir whose config targets a fake
// joke endpoint, and returns that config.
func newHome(t *testing.T) daemon.Config {
	t.Helper()
	var next atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := next.Add(1)
		fmt.Fprintf(w, `{"id":%d,"type":"general","setup":"setup %d","punchline":"punchline %d"}`, id, id, id)
	}))
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("JOKEBOX_HOME", home)

	cfg := daemon.DefaultConfig()
	cfg.Source.Endpoint = srv.URL
	cfg.Logging.Level = "error"
	require.NoError(t, daemon.SaveConfig(cfg))
	return cfg
}

// pointAt rewrites the saved config so the bridge address is addr.
func pointAt(t *testing.T, cfg daemon.Config, addr string) {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	cfg.API.Host = host
	cfg.API.Port, err = strconv.Atoi(port)
	require.NoError(t, err)
	require.NoError(t, daemon.SaveConfig(cfg))
}

// run executes one CLI invocation and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	fetchCount, fetchRead = 1, false
	favFetch, favJoke = false, domain.Joke{Type: "general"}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFetchAndRead(t *testing.T) {
	newHome(t)

	out, err := run(t, "", "fetch", "--read")
	require.NoError(t, err)
	assert.Contains(t, out, "setup 1")
	assert.Contains(t, out, "First Laugh")

	out, err = run(t, "", "read")
	require.NoError(t, err)
	assert.Contains(t, out, "Jokes read: 2")
	assert.Contains(t, out, "Streak: 1")
}

func TestFetch_DoesNotCountReads(t *testing.T) {
	newHome(t)

	_, err := run(t, "", "fetch", "-n", "3")
	require.NoError(t, err)

	out, err := run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Jokes read      0")
}

func TestFavorites(t *testing.T) {
	newHome(t)

	out, err := run(t, "", "fav", "add", "--id", "9", "--setup", "knock knock", "--punchline", "who's there")
	require.NoError(t, err)
	assert.Contains(t, out, "Added joke #9")
	assert.Contains(t, out, "Favorite Fun")

	out, err = run(t, "", "fav", "add", "--id", "9", "--setup", "knock knock", "--punchline", "who's there")
	require.NoError(t, err)
	assert.Contains(t, out, "already a favorite")

	_, err = run(t, "", "fav", "add", "--fetch")
	require.NoError(t, err)

	out, err = run(t, "", "fav", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "knock knock")
	assert.Contains(t, out, "setup 1")

	_, err = run(t, "", "fav", "rm", "9")
	require.NoError(t, err)
	_, err = run(t, "", "fav", "rm", "9")
	assert.Error(t, err)
	_, err = run(t, "", "fav", "add")
	assert.Error(t, err)
}

func TestStatsAndAchievements(t *testing.T) {
	newHome(t)
	for i := 0; i < 10; i++ {
		_, err := run(t, "", "read")
		require.NoError(t, err)
	}

	out, err := run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Jokes read      10")
	assert.Contains(t, out, "10 / 100 jokes")
	assert.Contains(t, out, "Achievements    2 / 5")

	out, err = run(t, "", "achievements")
	require.NoError(t, err)
	assert.Contains(t, out, "Joke Master")
	assert.Contains(t, out, "Comedy King")
}

func TestDeckSession(t *testing.T) {
	newHome(t)

	out, err := run(t, "r\nx\nl\nq\n", "deck")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved joke #1.")
	assert.Contains(t, out, `Unknown answer "x"`)

	out, err = run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Jokes read      2")
	assert.Contains(t, out, "Favorites       1")
}

func TestPrefs(t *testing.T) {
	newHome(t)

	out, err := run(t, "", "prefs", "set", "theme", "minimal_white")
	require.NoError(t, err)
	assert.Contains(t, out, "minimal_white")

	_, err = run(t, "", "prefs", "set", "theme", "plaid")
	assert.ErrorIs(t, err, domain.ErrInvalidPreference)

	out, err = run(t, "", "prefs", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "minimal_white")
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JOKEBOX_HOME", home)

	out, err := run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, "config.toml"))

	_, err = run(t, "", "config", "init")
	assert.Error(t, err, "refuses to overwrite")

	out, err = run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[source]")
	assert.Contains(t, out, "official-joke-api")
}

func TestCommandsRouteThroughRunningBridge(t *testing.T) {
	cfg := newHome(t)

	d, err := daemon.NewWithConfig(cfg)
	require.NoError(t, err)
	defer d.Close()
	bridge := httptest.NewServer(d.Server.Handler())
	defer bridge.Close()
	pointAt(t, cfg, bridge.Listener.Addr().String())

	out, err := run(t, "", "read")
	require.NoError(t, err)
	assert.Contains(t, out, "Jokes read: 1  Streak: 1")
	assert.Contains(t, out, "First Laugh")

	out, err = run(t, "", "fetch", "--read")
	require.NoError(t, err)
	assert.Contains(t, out, "setup 1")

	out, err = run(t, "", "recent")
	require.NoError(t, err)
	assert.Contains(t, out, "setup 1")

	out, err = run(t, "", "fav", "add", "--id", "9", "--setup", "knock knock", "--punchline", "who's there")
	require.NoError(t, err)
	assert.Contains(t, out, "Added joke #9")

	_, err = run(t, "", "prefs", "set", "theme", "plaid")
	assert.ErrorIs(t, err, domain.ErrInvalidPreference)
	_, err = run(t, "", "prefs", "set", "large_text", "true")
	require.NoError(t, err)

	out, err = run(t, "r\nq\n", "deck")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved joke #")

	_, err = run(t, "", "fav", "rm", "9")
	require.NoError(t, err)

	out, err = run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Jokes read      3")

	// Every write landed in the serving engine, none in a competing one.
	s := d.Engine.Snapshot()
	assert.Equal(t, 3, s.JokesReadCount)
	require.Len(t, s.FavoriteJokes, 1)
	assert.NotEqual(t, 9, s.FavoriteJokes[0].ID)
	assert.True(t, d.Prefs.Load().LargeText)
}

func TestLockedHomeWithoutBridge(t *testing.T) {
	cfg := newHome(t)

	d, err := daemon.NewWithConfig(cfg)
	require.NoError(t, err)
	defer d.Close()

	gone := httptest.NewServer(http.NotFoundHandler())
	addr := gone.Listener.Addr().String()
	gone.Close()
	pointAt(t, cfg, addr)

	_, err = run(t, "", "read")
	require.ErrorIs(t, err, daemon.ErrLocked)
	assert.Contains(t, err.Error(), addr)

	_, err = run(t, "", "serve")
	assert.ErrorIs(t, err, daemon.ErrLocked)

	assert.Equal(t, 0, d.Engine.Snapshot().JokesReadCount)
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(".", barWidth)+"]", renderBar(0))
	assert.Equal(t, "["+strings.Repeat("=", barWidth)+"]", renderBar(1.5))
	assert.Equal(t, "["+strings.Repeat("=", 14)+">"+strings.Repeat(".", 15)+"]", renderBar(0.5))
}

func TestWriteActivity(t *testing.T) {
	var buf bytes.Buffer
	writeActivity(&buf, []domain.DayActivity{{Day: "2025-07-01", Count: 4}, {Day: "2025-07-02", Count: 0}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], strings.Repeat("#", barWidth))
	assert.NotContains(t, lines[1], "#")
}
