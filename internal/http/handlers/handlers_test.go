package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/storage/memory"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Pagination json.RawMessage `json:"pagination"`
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) ofType(eventType string) []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []notify.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	t      *testing.T
	url    string
	store  *memory.Store
	events *recordingPublisher
	clock  *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewUserStore()
	events := &recordingPublisher{}
	clock := &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	sessions := auth.NewTokenManager("test-secret", "km-agri-test", time.Hour)

	r := chi.NewRouter()
	NewHealthHandler(time.Now()).Register(r)
	NewAuthHandler(store, sessions, auth.NewOTPIssuer(5*time.Minute, clock.Now), events, false).Register(r)
	NewUserHandler(store).Register(r)
	NewCartHandler(store).Register(r)
	NewOrderHandler(store, events).Register(r)
	NewWishlistHandler(store).Register(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return &harness{t: t, url: ts.URL, store: store, events: events, clock: clock}
}

func (h *harness) do(method, path string, body any, cookies ...*http.Cookie) (*http.Response, envelope) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.url+path, reader)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (h *harness) createUser(body map[string]any) string {
	h.t.Helper()
	resp, env := h.do(http.MethodPost, "/users", body)
	require.Equal(h.t, http.StatusCreated, resp.StatusCode, env.Message)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	resp, env := h.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}
