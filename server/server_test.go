package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/domonda/go-chartable/chart"
)

func newTestServer(t *testing.T, options ...Option) (*Server, *chart.Chart) {
	t.Helper()
	c, err := chart.New(map[string]any{
		"Genres":     []string{"Pop", "Rock"},
		"Popularity": []int{114, 96},
	}, chart.WithConfig(map[string]any{"x": "Genres"}))
	require.NoError(t, err)
	options = append([]Option{WithLogger(zaptest.NewLogger(t))}, options...)
	return New(c, options...), c
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestModel(t *testing.T) {
	s, c := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var model chart.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	require.Equal(t, c.ID(), model.ID)
	require.Equal(t, c.Columns(), model.Columns)
	require.Equal(t, []any{"Pop", "Rock"}, model.Data["Genres"])
	require.Equal(t, []any{114.0, 96.0}, model.Data["Popularity"])
	require.Equal(t, int64(500), model.Duration)
}

func TestAnimate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		errorMsg string
	}{
		{name: "config map", body: `{"anim":{"y":"Popularity"},"duration":250}`, status: http.StatusOK},
		{name: "targets", body: `{"anim":{"config":{"y":"Popularity"},"style":{"fontSize":"1.2em"}}}`, status: http.StatusOK},
		{name: "invalid target", body: `{"anim":{"config":{},"colors":{}}}`, status: http.StatusBadRequest, errorMsg: `could not update "colors"`},
		{name: "invalid json", body: `{"anim":`, status: http.StatusBadRequest, errorMsg: "invalid animate request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/animate", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.errorMsg != "" {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.Contains(t, resp["error"], tt.errorMsg)
				require.Equal(t, map[string]any{"x": "Genres"}, c.Config())
				return
			}
			require.Equal(t, map[string]any{"x": "Genres", "y": "Popularity"}, c.Config())
		})
	}

	s, c := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/animate", `{"anim":{},"duration":1500,"options":{"easing":"linear"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1500*time.Millisecond, c.Duration())
	require.Equal(t, map[string]any{"easing": "linear"}, c.Animation())
}

func TestEvents(t *testing.T) {
	s, c := newTestServer(t)
	var clicked map[string]any
	c.OnClick(func(data map[string]any) { clicked = data })

	rec := do(t, s, http.MethodPost, "/events", `{"type":"click","data":{"Genres":"Pop"}}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, map[string]any{"Genres": "Pop"}, clicked)
	require.Equal(t, map[string]any{"Genres": "Pop"}, c.Click())

	rec = do(t, s, http.MethodPost, "/events", `{"type":"wheel"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/events", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `chartable_events_total{type="click"} 1`)
	require.Contains(t, rec.Body.String(), `chartable_events_total{type="unknown"} 1`)
}

func TestPage(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), `data-model="model"`)
}

func readEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func TestEventStream(t *testing.T) {
	s, c := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	event, data := readEvent(t, r)
	require.Equal(t, "model", event)
	require.Contains(t, data, c.ID())

	require.NoError(t, c.Animate(map[string]any{"style": map[string]any{"fontSize": "2em"}}))
	event, data = readEvent(t, r)
	require.Equal(t, "patch", event)
	assert.JSONEq(t, `{"style":{"fontSize":"2em"}}`, data)

	require.NoError(t, c.HandleEvent(chart.Event{Type: chart.EventClick, Data: map[string]any{"Genres": "Rock"}}))
	event, data = readEvent(t, r)
	require.Equal(t, "patch", event)
	assert.JSONEq(t, `{"click":{"Genres":"Rock"}}`, data)
}

func TestEventStreamOverflow(t *testing.T) {
	s, c := newTestServer(t, WithStreamBuffer(1))
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	r := bufio.NewReader(resp.Body)
	event, _ := readEvent(t, r)
	require.Equal(t, "model", event)

	for i := range 1000 {
		require.NoError(t, c.Animate(map[string]any{"i": i}))
	}
	// The stream gets closed after the buffered patches
	_, err = io.ReadAll(r)
	require.NoError(t, err)
}

func TestServe(t *testing.T) {
	s, _ := newTestServer(t, WithShutdownTimeout(time.Second))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/model")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// An open event stream must not block the shutdown
	stream, err := http.Get("http://" + ln.Addr().String() + "/events")
	require.NoError(t, err)
	defer stream.Body.Close()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
