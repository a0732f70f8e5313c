package gend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/datagen/pkg/config"
	"github.com/GoSim-25-26J-441/datagen/pkg/logger"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *RunStore
	Executor *RunExecutor
}

func NewHTTPServer(store *RunStore, executor *RunExecutor) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRuns handles /v1/runs endpoint
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRunByID handles /v1/runs/{id} and related endpoints
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	// /v1/runs/{id}, /v1/runs/{id}:stop, /v1/runs/{id}/datasets[/{name}]
	path := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	if strings.HasSuffix(path, ":stop") {
		runID := strings.TrimSuffix(path, ":stop")
		if r.Method == http.MethodPost {
			s.handleStopRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if runID, rest, found := strings.Cut(path, "/datasets"); found {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		switch {
		case rest == "" || rest == "/":
			s.handleListDatasets(w, r, runID)
		case strings.HasPrefix(rest, "/"):
			s.handleDownloadDataset(w, r, runID, strings.TrimPrefix(rest, "/"))
		default:
			s.writeError(w, http.StatusNotFound, "not found")
		}
		return
	}

	if strings.Contains(path, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetRun(w, r, path)
	} else {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateRun handles POST /v1/runs. The run starts immediately.
func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RunID      string `json:"run_id,omitempty"`
		ConfigYAML string `json:"config_yaml,omitempty"`
		ConfigTOML string `json:"config_toml,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg, err := parseRequestConfig(req.ConfigYAML, req.ConfigTOML)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := s.store.Create(req.RunID, cfg)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunExists):
			s.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidRunID):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	started, err := s.Executor.Start(run.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("run created (HTTP)", "run_id", run.ID, "seed", run.Seed)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run": convertRunToJSON(started),
	})
}

// parseRequestConfig accepts exactly one of a YAML or TOML document
func parseRequestConfig(yamlText, tomlText string) (*config.Config, error) {
	switch {
	case yamlText != "" && tomlText != "":
		return nil, errors.New("only one of config_yaml or config_toml may be set")
	case yamlText != "":
		return config.ParseConfigYAMLString(yamlText)
	case tomlText != "":
		return config.ParseConfigTOML([]byte(tomlText))
	default:
		return nil, errors.New("config_yaml or config_toml is required")
	}
}

// handleListRuns handles GET /v1/runs with pagination and filtering
func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, 1000)
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var statusFilter models.RunStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		statusFilter = models.RunStatus(strings.ToLower(statusStr))
	}

	runs := s.store.List(limit, offset, statusFilter)
	runsJSON := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		runsJSON = append(runsJSON, convertRunToJSON(run))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs": runsJSON,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
			"count":  len(runs),
		},
	})
}

// handleGetRun handles GET /v1/runs/{id}
func (s *HTTPServer) handleGetRun(w http.ResponseWriter, _ *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": convertRunToJSON(rec.Run),
	})
}

// handleStopRun handles POST /v1/runs/{id}:stop
func (s *HTTPServer) handleStopRun(w http.ResponseWriter, _ *http.Request, runID string) {
	updated, err := s.Executor.Stop(runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			s.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrRunIDMissing):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrRunTerminal):
			s.writeError(w, http.StatusConflict, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Info("run cancelled (HTTP)", "run_id", runID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": convertRunToJSON(updated),
	})
}

// handleListDatasets handles GET /v1/runs/{id}/datasets
func (s *HTTPServer) handleListDatasets(w http.ResponseWriter, _ *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	datasets := rec.Run.Datasets
	if datasets == nil {
		datasets = []models.DatasetSummary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":   runID,
		"status":   rec.Run.Status,
		"datasets": datasets,
	})
}

// handleDownloadDataset handles GET /v1/runs/{id}/datasets/{name}
func (s *HTTPServer) handleDownloadDataset(w http.ResponseWriter, _ *http.Request, runID, name string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	data, ok := rec.Sink.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "dataset not found: "+name)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("failed to write dataset", "run_id", runID, "name", name, "error", err)
	}
}

// Helper functions

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

func convertRunToJSON(run models.Run) map[string]any {
	out := map[string]any{
		"id":            run.ID,
		"status":        string(run.Status),
		"seed":          run.Seed,
		"created_at":    formatTime(run.CreatedAt),
		"started_at":    formatTime(run.StartedAt),
		"ended_at":      formatTime(run.EndedAt),
		"error":         run.Error,
		"dataset_count": len(run.Datasets),
	}
	names := make([]string, 0, len(run.Datasets))
	for _, ds := range run.Datasets {
		names = append(names, ds.Name)
	}
	out["datasets"] = names
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
