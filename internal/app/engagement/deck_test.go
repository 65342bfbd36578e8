package engagement_test

import (
	"context"
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/domain"
)

func newDeck(t *testing.T, src *stubSource) (*engagement.Deck, *engagement.Engine) {
	t.Helper()
	e := newEngine(t, testDB(t), src, newClock(day0))
	return engagement.NewDeck(e, src, engagement.DefaultDeckConfig(), quietLogger()), e
}

func TestDeck_Preload(t *testing.T) {
	d, e := newDeck(t, &stubSource{})

	require.NoError(t, d.Preload(context.Background()))

	cards := d.Cards()
	require.Len(t, cards, 3)
	assert.NotEqual(t, cards[0].ID, cards[1].ID)

	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, 1, cur.Joke.ID)
	next, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, 2, next.Joke.ID)

	assert.Empty(t, e.Snapshot().RecentJokes, "deck cards bypass recent")
}

func TestDeck_SwipeRightFavoritesAndReads(t *testing.T) {
	d, e := newDeck(t, &stubSource{})
	require.NoError(t, d.Preload(context.Background()))

	res, err := d.Swipe(context.Background(), domain.SwipeRight)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Card.Joke.ID)
	assert.True(t, res.Favorited)
	var ids []string
	for _, a := range res.Unlocked {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{engagement.AchFirstFavorite, engagement.AchFirstJoke}, ids)

	s := e.Snapshot()
	assert.Equal(t, 1, s.JokesReadCount)
	assert.Equal(t, []domain.Joke{joke(1)}, s.FavoriteJokes)
}

func TestDeck_SwipeLeftOnlyReads(t *testing.T) {
	d, e := newDeck(t, &stubSource{})
	require.NoError(t, d.Preload(context.Background()))

	res, err := d.Swipe(context.Background(), domain.SwipeLeft)
	require.NoError(t, err)

	assert.False(t, res.Favorited)
	s := e.Snapshot()
	assert.Equal(t, 1, s.JokesReadCount)
	assert.Empty(t, s.FavoriteJokes)
}

func TestDeck_RefillsWhenLow(t *testing.T) {
	d, _ := newDeck(t, &stubSource{})
	ctx := context.Background()
	require.NoError(t, d.Preload(ctx))

	// 3 → 2 left, no refill.
	res, err := d.Swipe(ctx, domain.SwipeLeft)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)

	// 2 → 1 left, one card fetched.
	res, err = d.Swipe(ctx, domain.SwipeLeft)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)

	cur, _ := d.Current()
	assert.Equal(t, 3, cur.Joke.ID)
	next, _ := d.Next()
	assert.Equal(t, 4, next.Joke.ID)
}

func TestDeck_RefillFailureIsLogged(t *testing.T) {
	src := &stubSource{}
	e := newEngine(t, testDB(t), src, newClock(day0))
	log, hook := logtest.NewNullLogger()
	d := engagement.NewDeck(e, src, engagement.DeckConfig{Preload: 2, RefillBelow: 2}, log)
	ctx := context.Background()
	require.NoError(t, d.Preload(ctx))

	src.fail(domain.ErrNetwork)
	res, err := d.Swipe(ctx, domain.SwipeLeft)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "deck refill failed", hook.LastEntry().Message)

	_, err = d.Swipe(ctx, domain.SwipeLeft)
	require.NoError(t, err)
	_, err = d.Swipe(ctx, domain.SwipeLeft)
	assert.ErrorIs(t, err, domain.ErrDeckEmpty)
	assert.Equal(t, 2, e.Snapshot().JokesReadCount)
}

func TestDeck_PreloadReportsFailures(t *testing.T) {
	src := &stubSource{}
	src.fail(domain.ErrDecode)
	d, _ := newDeck(t, src)

	err := d.Preload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDecode))
	assert.Empty(t, d.Cards())

	_, ok := d.Current()
	assert.False(t, ok)
}

func TestParseSwipeDirection(t *testing.T) {
	for in, want := range map[string]domain.SwipeDirection{"left": domain.SwipeLeft, "right": domain.SwipeRight} {
		got, ok := domain.ParseSwipeDirection(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := domain.ParseSwipeDirection("up")
	assert.False(t, ok)
}
