package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkay81/numquest/internal/config"
	"github.com/mkay81/numquest/internal/daily"
	"github.com/mkay81/numquest/internal/database"
	"github.com/mkay81/numquest/internal/game"
	"github.com/mkay81/numquest/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return New(store.NewMemoryStore(), db, config.Test())
}

// client replays cookies across requests, like a browser would.
type client struct {
	t       *testing.T
	srv     *Server
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

// winGame binary-searches to a win; easy level needs at most 6 of 10 attempts.
func winGame(t *testing.T, c *client) game.Outcome {
	t.Helper()
	lo, hi := 1, 50
	for i := 0; i < 10; i++ {
		w := c.do(http.MethodPost, "/game/guess", map[string]any{"guess": strconv.Itoa((lo + hi) / 2)})
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[guessRes](t, w)
		switch res.Outcome.Kind {
		case game.KindWon:
			return res.Outcome
		case game.KindMiss:
			mid := (lo + hi) / 2
			if res.Outcome.Direction == game.DirectionHigher {
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		default:
			t.Fatalf("unexpected outcome %q", res.Outcome.Kind)
		}
	}
	t.Fatal("binary search did not win within the attempt budget")
	return game.Outcome{}
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestLevels(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.do(http.MethodGet, "/levels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lvls := decode[[]game.Level](t, w)
	require.Len(t, lvls, 3)
	assert.Equal(t, game.LevelName(game.LevelEasy), lvls[0].Name)
	assert.Equal(t, 100, lvls[2].Max)
}

func TestStartSetsAnonCookie(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, c.cookies, "numquest_anon")
}

func TestStartUnknownLevel(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.do(http.MethodPost, "/game/start", map[string]string{"level": "nightmare"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	w := c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})
	require.Equal(t, http.StatusOK, w.Code)
	start := decode[stateRes](t, w)
	assert.True(t, start.State.Active)
	assert.Equal(t, 10, start.State.AttemptsLeft)
	assert.Equal(t, game.FeedbackFirstGuess, start.State.Feedback)

	// Invalid input consumes nothing.
	w = c.do(http.MethodPost, "/game/guess", map[string]any{"guess": "not a number"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[guessRes](t, w)
	assert.Equal(t, game.OutcomeKind(game.KindInvalid), res.Outcome.Kind)
	assert.Equal(t, game.MsgInvalidNumber, res.Outcome.Message)
	assert.Equal(t, 0, res.State.AttemptsUsed)

	// Out-of-range consumes nothing either.
	w = c.do(http.MethodPost, "/game/guess", map[string]any{"guess": 999})
	res = decode[guessRes](t, w)
	assert.Equal(t, game.OutcomeKind(game.KindOutOfRange), res.Outcome.Kind)
	assert.Equal(t, "Number must be between 1 and 50!", res.Outcome.Message)
	assert.Equal(t, 0, res.State.AttemptsUsed)

	out := winGame(t, c)
	assert.GreaterOrEqual(t, out.ScoreEarned, 10)

	// Ledger visible in state, session over.
	w = c.do(http.MethodGet, "/game/state", nil)
	st := decode[stateRes](t, w)
	assert.False(t, st.State.Active)
	assert.Equal(t, out.ScoreEarned, st.State.TotalScore)

	// Guessing after the session is a no-op.
	w = c.do(http.MethodPost, "/game/guess", map[string]any{"guess": 25})
	res = decode[guessRes](t, w)
	assert.Equal(t, game.OutcomeKind(game.KindInactive), res.Outcome.Kind)
}

func TestScoreAccumulatesAndResets(t *testing.T) {
	c := newClient(t, newTestServer(t))

	c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})
	first := winGame(t, c)
	c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})
	second := winGame(t, c)

	w := c.do(http.MethodGet, "/game/state", nil)
	st := decode[stateRes](t, w)
	assert.Equal(t, first.ScoreEarned+second.ScoreEarned, st.State.TotalScore)

	w = c.do(http.MethodPost, "/score/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st = decode[stateRes](t, w)
	assert.Equal(t, 0, st.State.TotalScore)
}

func TestChangeLevelEndpoint(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.do(http.MethodPost, "/game/start", map[string]string{"level": "medium"})

	w := c.do(http.MethodPost, "/game/level", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[stateRes](t, w)
	assert.False(t, st.State.Active)
	assert.Nil(t, st.State.Level)
}

func TestPrefs(t *testing.T) {
	c := newClient(t, newTestServer(t))

	w := c.do(http.MethodGet, "/prefs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, float64(40), got["volume"])
	assert.Equal(t, "dark", got["theme"])

	w = c.do(http.MethodPut, "/prefs", map[string]any{"volume": 80, "muted": true, "theme": "light"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/prefs", nil)
	got = decode[map[string]any](t, w)
	assert.Equal(t, float64(80), got["volume"])
	assert.Equal(t, true, got["muted"])
	assert.Equal(t, "light", got["theme"])

	w = c.do(http.MethodPut, "/prefs", map[string]any{"volume": 200, "theme": "dark"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPut, "/prefs", map[string]any{"volume": 10, "theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	w := c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "player_one", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, c.cookies, "numquest_token")

	w = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "player_one", me["username"])

	// Stats start at zero, then a win shows up.
	w = c.do(http.MethodGet, "/stats/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.Equal(t, float64(0), stats["gamesPlayed"])

	c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})
	out := winGame(t, c)

	w = c.do(http.MethodGet, "/stats/me", nil)
	stats = decode[map[string]any](t, w)
	assert.Equal(t, float64(1), stats["gamesPlayed"])
	assert.Equal(t, float64(1), stats["wins"])
	assert.Equal(t, float64(out.ScoreEarned), stats["totalScore"])

	w = c.do(http.MethodGet, "/games/mine", nil)
	require.Equal(t, http.StatusOK, w.Code)
	games := decode[[]map[string]any](t, w)
	require.Len(t, games, 1)
	assert.Equal(t, "won", games[0]["status"])
	assert.Equal(t, "easy", games[0]["level"])

	// Logout drops the token; gated routes reject.
	c.do(http.MethodPost, "/auth/logout", nil)
	w = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupValidation(t *testing.T) {
	c := newClient(t, newTestServer(t))

	w := c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "ab", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "valid_name", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "valid_name", "password": "longenough1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "valid_name", "password": "longenough1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDailyChallenge(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	w := c.do(http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dailyNewRes](t, w)
	require.False(t, res.Played)
	require.NotEmpty(t, res.GameID)
	assert.Equal(t, 1, res.Min)
	assert.Equal(t, 100, res.Max)

	// The daily target is deterministic given the salt and date.
	target := daily.Target(time.Now().UTC(), srv.cfg.DailySalt, res.Min, res.Max)

	// A wrong guess gives a direction.
	wrong := target + 1
	if wrong > res.Max {
		wrong = target - 1
	}
	w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": wrong})
	require.Equal(t, http.StatusOK, w.Code)
	gr := decode[dailyGuessRes](t, w)
	assert.Equal(t, "in_progress", gr.State)
	assert.NotEmpty(t, gr.Direction)

	// The right guess wins and locks the day.
	w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": target})
	gr = decode[dailyGuessRes](t, w)
	require.Equal(t, "won", gr.State)
	assert.Equal(t, 2, gr.Attempts)

	w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": target})
	gr = decode[dailyGuessRes](t, w)
	assert.Equal(t, "locked", gr.State)

	w = c.do(http.MethodPost, "/daily/new", nil)
	res2 := decode[dailyNewRes](t, w)
	assert.True(t, res2.Played)

	w = c.do(http.MethodGet, "/daily/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lb := decode[lbRes](t, w)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 2, lb.Top[0].Attempts)
	assert.True(t, lb.Top[0].Won)
}

func TestDailyChallengeLoss(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	w := c.do(http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dailyNewRes](t, w)
	require.False(t, res.Played)

	target := daily.Target(time.Now().UTC(), srv.cfg.DailySalt, res.Min, res.Max)
	wrong := target + 1
	if wrong > res.Max {
		wrong = target - 1
	}

	for i := 1; i < res.MaxAttempts; i++ {
		w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": wrong})
		require.Equal(t, http.StatusOK, w.Code)
		gr := decode[dailyGuessRes](t, w)
		require.Equal(t, "in_progress", gr.State)
		assert.Equal(t, res.MaxAttempts-i, gr.AttemptsLeft)
	}

	// The last wrong guess loses and reveals the target.
	w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": wrong})
	gr := decode[dailyGuessRes](t, w)
	require.Equal(t, "lost", gr.State)
	assert.Equal(t, res.MaxAttempts, gr.Attempts)
	assert.Equal(t, target, gr.Target)

	// The day is locked and recorded.
	w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": wrong})
	gr = decode[dailyGuessRes](t, w)
	assert.Equal(t, "locked", gr.State)

	w = c.do(http.MethodPost, "/daily/new", nil)
	res2 := decode[dailyNewRes](t, w)
	assert.True(t, res2.Played)

	// A last-attempt win from another player still outranks the loss.
	c2 := newClient(t, srv)
	w = c2.do(http.MethodPost, "/daily/new", nil)
	res = decode[dailyNewRes](t, w)
	for i := 1; i < res.MaxAttempts; i++ {
		c2.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": wrong})
	}
	w = c2.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": target})
	gr = decode[dailyGuessRes](t, w)
	require.Equal(t, "won", gr.State)
	require.Equal(t, res.MaxAttempts, gr.Attempts)

	w = c.do(http.MethodGet, "/daily/leaderboard", nil)
	lb := decode[lbRes](t, w)
	require.Len(t, lb.Top, 2)
	assert.True(t, lb.Top[0].Won)
	assert.Equal(t, c2.cookies["numquest_anon"].Value, lb.Top[0].UserID)
	assert.False(t, lb.Top[1].Won)
	assert.Equal(t, c.cookies["numquest_anon"].Value, lb.Top[1].UserID)
}

func TestDailyConcurrentGuessesRespectBudget(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	w := c.do(http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dailyNewRes](t, w)

	target := daily.Target(time.Now().UTC(), srv.cfg.DailySalt, res.Min, res.Max)
	wrong := target + 1
	if wrong > res.Max {
		wrong = target - 1
	}
	anon := c.cookies["numquest_anon"]

	var wg sync.WaitGroup
	results := make(chan dailyGuessRes, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, _ := json.Marshal(map[string]any{"gameId": res.GameID, "guess": wrong})
			req := httptest.NewRequest(http.MethodPost, "/daily/guess", bytes.NewReader(b))
			req.AddCookie(anon)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			var gr dailyGuessRes
			_ = json.NewDecoder(rec.Body).Decode(&gr)
			results <- gr
		}()
	}
	wg.Wait()
	close(results)

	consumed := 0
	for gr := range results {
		assert.LessOrEqual(t, gr.Attempts, res.MaxAttempts)
		if gr.State == "in_progress" || gr.State == "lost" {
			consumed++
		}
	}
	assert.Equal(t, res.MaxAttempts, consumed, "exactly the attempt budget is consumable")
}

func TestDailyOutOfRange(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.do(http.MethodPost, "/daily/new", nil)
	res := decode[dailyNewRes](t, w)

	w = c.do(http.MethodPost, "/daily/guess", map[string]any{"gameId": res.GameID, "guess": 500})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundIsJSON(t *testing.T) {
	c := newClient(t, newTestServer(t))
	w := c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"not_found"`)
}

func TestGuessAcceptsNumberAndString(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})

	for _, body := range []map[string]any{
		{"guess": 25},
		{"guess": "25"},
		{"guess": 25.7},
	} {
		w := c.do(http.MethodPost, "/game/guess", body)
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[guessRes](t, w)
		assert.Contains(t, []game.OutcomeKind{game.KindMiss, game.KindWon}, res.Outcome.Kind,
			fmt.Sprintf("body %v", body))
		if res.Outcome.Kind == game.KindWon {
			c.do(http.MethodPost, "/game/start", map[string]string{"level": "easy"})
		}
	}
}
