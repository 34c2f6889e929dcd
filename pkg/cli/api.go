package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/mchmarny/textscore/pkg/data"
	"github.com/mchmarny/textscore/pkg/net"
	"github.com/mchmarny/textscore/pkg/score"
)

const apiSource = "api"

type scorerFunc func(ctx context.Context, mode score.Mode) (*score.Scorer, error)

// scoreRequest is the JSON body of the scoring endpoints.
type scoreRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func makeRouter(scorer scorerFunc, store *data.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)

	// Scoring API
	mux.HandleFunc("POST /v1/score", scoreAPIHandler(scorer, store))
	mux.HandleFunc("POST /v1/score/labels", labelsAPIHandler(scorer))

	// History API
	mux.HandleFunc("GET /v1/scores", listAPIHandler(store))
	mux.HandleFunc("GET /v1/scores/{id}", getAPIHandler(store))
	mux.HandleFunc("GET /v1/stats", statsAPIHandler(store))

	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseScoreRequest reads the text to score from a JSON, plain text, HTML
// or Markdown body.
func parseScoreRequest(w http.ResponseWriter, r *http.Request) (*scoreRequest, error) {
	body := http.MaxBytesReader(w, r.Body, maxInputBytes)
	defer body.Close()

	mt := "text/plain"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("invalid content type: %w", err)
		}
		mt = parsed
	}

	req := &scoreRequest{}
	switch {
	case mt == "application/json":
		if err := json.NewDecoder(body).Decode(req); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
	case net.IsHTML(mt):
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		req.Text = net.StripHTML(string(b))
	case net.IsMarkdown(mt):
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		if req.Text, err = net.StripMarkdown(string(b)); err != nil {
			return nil, err
		}
	case mt == "text/plain":
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		req.Text = string(b)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", mt)
	}

	if req.Source == "" {
		req.Source = apiSource
	}
	if req.Mode == "" {
		req.Mode = r.URL.Query().Get("mode")
	}
	return req, nil
}

func resolveScorer(r *http.Request, scorer scorerFunc, req *scoreRequest) (*score.Scorer, error) {
	var mode score.Mode
	if req.Mode != "" {
		m, err := score.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	return scorer(r.Context(), mode)
}

func scoreAPIHandler(scorer scorerFunc, store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseScoreRequest(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sc, err := resolveScorer(r, scorer, req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		target := store
		if save, err := strconv.ParseBool(r.URL.Query().Get("save")); err == nil && !save {
			target = nil
		}

		res, err := scoreText(r.Context(), sc, target, req.Source, req.Text, false)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func labelsAPIHandler(scorer scorerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseScoreRequest(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sc, err := resolveScorer(r, scorer, req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := scoreText(r.Context(), sc, nil, req.Source, req.Text, true)
		if err != nil {
			writeScoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeScoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, score.ErrEmptyInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("failed to score text", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to score text")
}

func queryParamInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func listAPIHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		like := r.URL.Query().Get("like")
		limit := queryParamInt(r, "limit", data.ListLimitDefault)

		list, err := store.ListReports(r.Context(), like, limit)
		if err != nil {
			slog.Error("failed to list reports", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list reports")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func getAPIHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid report id")
			return
		}

		rec, err := store.GetReport(r.Context(), id)
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				writeError(w, http.StatusNotFound, "report not found")
				return
			}
			slog.Error("failed to get report", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get report")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func statsAPIHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.GetStats(r.Context())
		if err != nil {
			slog.Error("failed to get stats", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get stats")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
