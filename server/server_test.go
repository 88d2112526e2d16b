package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grailbio/intervals/interval"
	"github.com/grailbio/intervals/server"
	"github.com/grailbio/intervals/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(svcOpts service.Opts, opts server.Opts) http.Handler {
	return server.New(service.New(svcOpts), opts).Handler()
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, server.MergePath, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) server.ErrorBody {
	var resp server.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestMergeSuccess(t *testing.T) {
	h := newHandler(service.DefaultOpts, server.DefaultOpts)
	tests := []struct {
		body string
		want string
	}{
		{`{"input": "[25,30] [2,19] [14,23] [4,8]"}`, `[[2,23],[25,30]]`},
		{`{"input": "[5,30] [2,4] [4,28]"}`, `[[2,30]]`},
		{`{"input": "[1,1]"}`, `[[1,1]]`},
		{`{"intervals": [[25,30],[35,40],[20,25],[4,8]]}`, `[[4,8],[20,30],[35,40]]`},
	}
	for _, tt := range tests {
		w := post(h, tt.body)
		require.Equal(t, http.StatusOK, w.Code, tt.body)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.JSONEq(t, tt.want, string(raw["result"]), tt.body)
		assert.Contains(t, raw, "elapsed_time")
		assert.NotContains(t, raw, "memory_usage")
	}
}

func TestMergeMemoryUsage(t *testing.T) {
	h := newHandler(service.Opts{MeasureMemory: true}, server.DefaultOpts)
	w := post(h, `{"input": "[1,2]"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp server.MergeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []interval.Interval{{Start: 1, End: 2}}, resp.Result)
	assert.True(t, strings.HasSuffix(resp.MemoryUsage, " bytes"), resp.MemoryUsage)
}

func TestMergeValidationErrors(t *testing.T) {
	h := newHandler(service.Opts{MaxIntervals: 3}, server.DefaultOpts)
	tests := []struct {
		body   string
		status int
		kind   string
	}{
		{`{"input": ""}`, http.StatusUnprocessableEntity, "empty_input"},
		{`{}`, http.StatusUnprocessableEntity, "empty_input"},
		{`{"intervals": []}`, http.StatusUnprocessableEntity, "empty_input"},
		{`{"input": "abc[25,30] [2,19] [14, 23a] def [4,8 ghi"}`, http.StatusUnprocessableEntity, "malformed_syntax"},
		{`{"input": "[10,5]"}`, http.StatusUnprocessableEntity, "invalid_range"},
		{`{"intervals": [[10,5]]}`, http.StatusUnprocessableEntity, "invalid_range"},
		{`{"input": "[1,3] [2,4] [5,8] [6,7] [9,10] [11,12]"}`, http.StatusRequestEntityTooLarge, "too_many_intervals"},
		{`{"intervals": [{"start": 25, "end": 30}, {"start": 2, "end": 19}`, http.StatusBadRequest, server.KindBadRequest},
		{`{"intervals": [[1,2,3]]}`, http.StatusBadRequest, server.KindBadRequest},
	}
	for _, tt := range tests {
		w := post(h, tt.body)
		assert.Equal(t, tt.status, w.Code, tt.body)
		e := decodeError(t, w)
		assert.Equal(t, tt.kind, e.Kind, tt.body)
		assert.NotEmpty(t, e.Message, tt.body)
		assert.NotContains(t, w.Body.String(), "result")
	}
}

func TestMergeObjectIntervals(t *testing.T) {
	h := newHandler(service.Opts{MaxIntervals: 4}, server.DefaultOpts)
	w := post(h, `{"intervals":[{"start":25,"end":30},{"start":2,"end":19},{"start":14,"end":23},{"start":4,"end":8}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp server.MergeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []interval.Interval{{Start: 2, End: 23}, {Start: 25, End: 30}}, resp.Result)

	w = post(h, `{"intervals":[{"start":1,"end":3},{"start":2,"end":4},{"start":5,"end":8},{"start":6,"end":7},{"start":9,"end":10}]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, interval.TooManyIntervals.String(), decodeError(t, w).Kind)

	w = post(h, `{"intervals":[{"start":10,"end":5}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, interval.InvalidRange.String(), decodeError(t, w).Kind)
}

func TestMergeBodyLimit(t *testing.T) {
	opts := server.DefaultOpts
	opts.MaxRequestBytes = 16
	h := newHandler(service.DefaultOpts, opts)
	w := post(h, `{"input": "[1,2] [3,4] [5,6] [7,8]"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, server.KindBadRequest, decodeError(t, w).Kind)
}

func TestMergeMethodNotAllowed(t *testing.T) {
	h := newHandler(service.DefaultOpts, server.DefaultOpts)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, server.MergePath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestCORS(t *testing.T) {
	h := newHandler(service.DefaultOpts, server.DefaultOpts)

	r := httptest.NewRequest(http.MethodOptions, server.MergePath, nil)
	r.Header.Set("Origin", "http://localhost:3010")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "http://localhost:3010", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodPost, server.MergePath, strings.NewReader(`{"input": "[1,2]"}`))
	r.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := server.New(service.New(service.DefaultOpts), server.DefaultOpts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	resp, err := http.Post(url+server.MergePath, "application/json", strings.NewReader(`{"input": "[5,30] [2,4] [4,28]"}`))
	require.NoError(t, err)
	var body server.MergeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, []interval.Interval{{Start: 2, End: 30}}, body.Result)

	resp, err = http.Get(url + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
