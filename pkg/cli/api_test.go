package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mchmarny/textscore/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := newTestConfig(t)
	store, err := cfg.Store(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(makeRouter(cfg.Scorer, store))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, contentType, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var v map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return resp, v
}

func get(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	var v map[string]string
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/healthz", &v))
	assert.Equal(t, "ok", v["status"])
}

func TestScoreAPI_SaveAndQuery(t *testing.T) {
	srv := newTestServer(t)

	resp, v := post(t, srv.URL+"/v1/score", "application/json",
		`{"text": "Summer came. After a long toalk the genie came.", "source": "essay-1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "essay-1", v["source"])
	id := int64(v["id"].(float64))
	require.Greater(t, id, int64(0))

	report := v["report"].(map[string]any)
	assert.Equal(t, float64(1), report["spellchecked"])
	assert.Equal(t, "standard", report["mode"])

	var rec data.Record
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/scores/"+jsonInt(id), &rec))
	assert.Equal(t, "essay-1", rec.Source)
	assert.Contains(t, rec.Text, "toalk")
	assert.Contains(t, rec.Corrected, "talk")

	var list []*data.Record
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/scores?like=essay&limit=5", &list))
	assert.Len(t, list, 1)

	var st data.Stats
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/stats", &st))
	assert.Equal(t, int64(1), st.Count)
}

func TestScoreAPI_NoSave(t *testing.T) {
	srv := newTestServer(t)

	resp, v := post(t, srv.URL+"/v1/score?save=false", "text/plain", "Summer came running.")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, v["id"])
	assert.Equal(t, apiSource, v["source"])

	var st data.Stats
	get(t, srv.URL+"/v1/stats", &st)
	assert.Equal(t, int64(0), st.Count)
}

func TestScoreAPI_HTML(t *testing.T) {
	srv := newTestServer(t)

	resp, v := post(t, srv.URL+"/v1/score?save=false", "text/html; charset=utf-8",
		`<p>Summer <b>came</b>.</p><script>var genie = 1;</script>`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := v["report"].(map[string]any)
	assert.Equal(t, float64(2), report["tokens"])
}

func TestScoreAPI_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
	}{
		{"empty text", "/v1/score", "application/json", `{"text": "   "}`},
		{"bad json", "/v1/score", "application/json", `{"text": `},
		{"bad mode", "/v1/score", "application/json", `{"text": "summer", "mode": "exact"}`},
		{"unsupported type", "/v1/score", "image/png", "png"},
		{"empty labels", "/v1/score/labels", "text/plain", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, v := post(t, srv.URL+tt.path, tt.contentType, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, v["error"])
		})
	}
}

func TestLabelsAPI(t *testing.T) {
	srv := newTestServer(t)

	resp, v := post(t, srv.URL+"/v1/score/labels?mode=legacy", "text/plain", "Summer came. the genie")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	labels := v["labels"].([]any)
	require.Len(t, labels, 6)
	assert.True(t, strings.HasSuffix(labels[0].(string), " "))
	assert.Nil(t, v["report"])

	var st data.Stats
	get(t, srv.URL+"/v1/stats", &st)
	assert.Equal(t, int64(0), st.Count)
}

func TestGetAPI_Errors(t *testing.T) {
	srv := newTestServer(t)

	var v map[string]string
	assert.Equal(t, http.StatusBadRequest, get(t, srv.URL+"/v1/scores/abc", &v))
	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/v1/scores/999", &v))
	assert.Equal(t, "report not found", v["error"])
}

func TestQueryParamInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/scores?limit=7&bad=x&neg=-1", nil)
	assert.Equal(t, 7, queryParamInt(r, "limit", 1))
	assert.Equal(t, 1, queryParamInt(r, "bad", 1))
	assert.Equal(t, 1, queryParamInt(r, "neg", 1))
	assert.Equal(t, 1, queryParamInt(r, "missing", 1))
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
