package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpAdapter "github.com/aretw0/dagview/pkg/adapters/http"
	"github.com/aretw0/dagview/pkg/adapters/memory"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/observability"
	"github.com/aretw0/dagview/pkg/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topology = `{
	"data": {
		"nodes": [
			{"id": "n1", "label": "source", "comboId": "pipeline"},
			{"id": "n2", "label": "sink", "comboId": "pipeline"}
		],
		"edges": [{"source": "n1", "target": "n2"}],
		"combos": [{"id": "pipeline", "label": "Pipeline"}]
	}
}`

func newTestServer(t *testing.T) (*view.Hub, http.Handler) {
	t.Helper()
	hub := view.NewHub(memory.NewStore())
	reg := prometheus.NewRegistry()
	handler := httpAdapter.NewHandler(hub,
		httpAdapter.WithMetrics(observability.NewMetrics(reg), reg),
		httpAdapter.WithVersion("1.2.3\n"),
	)
	return hub, handler
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostSnapshot(t *testing.T) {
	hub, h := newTestServer(t)

	w := do(t, h, "POST", "/views/pipeline/snapshot", topology)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp["nodes"])
	assert.Equal(t, 1, resp["combos"])

	latest, err := hub.Latest(context.Background(), "pipeline")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, latest.NodeIDs())

	w = do(t, h, "GET", "/views/pipeline", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"comboId":"pipeline"`)

	w = do(t, h, "GET", "/views", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["pipeline"]`, w.Body.String())
}

func TestPostSnapshot_Invalid(t *testing.T) {
	_, h := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/views/v/snapshot", "{").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/views/v/snapshot", `{"nodes": "many"}`).Code)
}

func TestGetView_NotFound(t *testing.T) {
	_, h := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/views/missing", "").Code)
}

func TestDeleteView(t *testing.T) {
	_, h := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/views/v/snapshot", topology).Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/views/v", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/views/v", "").Code)
}

func TestPostFocus(t *testing.T) {
	hub, h := newTestServer(t)
	cmds, cancel, err := hub.Mount(context.Background(), "v")
	require.NoError(t, err)
	defer cancel()

	w := do(t, h, "POST", "/views/v/focus", `{"id": "n2"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, domain.FocusCommand("n2"), <-cmds)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/views/v/focus", `{"id": ""}`).Code)
}

func TestPostFocusPath(t *testing.T) {
	hub, h := newTestServer(t)
	reports, cancel := hub.SubscribeReports("v")
	defer cancel()

	require.Equal(t, http.StatusAccepted, do(t, h, "POST", "/views/v/focus-path", `{"path": "pipeline/ n1 /"}`).Code)
	require.Equal(t, http.StatusAccepted, do(t, h, "POST", "/views/v/focus-path", `{"path": ["a", "b"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/views/v/focus-path", `{"path": "/"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/views/v/focus-path", `{"path": 3}`).Code)

	assert.Equal(t, []string{"pipeline", "n1"}, (<-reports).Path)
	assert.Equal(t, []string{"a", "b"}, (<-reports).Path)
}

func TestHealthInfoMetrics(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.JSONEq(t, `{"app":"dagview-http","version":"1.2.3"}`, w.Body.String())

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/views/v/snapshot", topology).Code)
	w = do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dagview_snapshots_published_total{view="v"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, "OPTIONS", "/views/v/snapshot", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeReports(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/views/v/reports", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	post, err := http.Post(srv.URL+"/views/v/focus-path", "application/json", bytes.NewBufferString(`{"path": "a/b"}`))
	require.NoError(t, err)
	post.Body.Close()

	var got []string
	for lines.Scan() {
		if lines.Text() == "" {
			continue
		}
		got = append(got, lines.Text())
		if strings.HasPrefix(lines.Text(), "data: {") {
			break
		}
	}
	assert.Contains(t, got, "event: focus-path")
	assert.Contains(t, got, `data: {"name":"focus-path","path":["a","b"]}`)
}
