// Package web serves the axiom REST API and a minimal run browser.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/metalagman/axiom/internal/ai"
	"github.com/metalagman/axiom/internal/db"
	"github.com/metalagman/axiom/internal/gates"
	"github.com/metalagman/axiom/internal/model"
	"github.com/metalagman/axiom/internal/spec"
	"github.com/metalagman/axiom/internal/sweep"
	"github.com/rs/zerolog/log"
)

// Server provides the HTTP handlers and state.
type Server struct {
	store         *db.Store
	ai            *ai.Client
	sweepDefaults sweep.Request
}

// NewServer creates a server over the run store. The AI client may be nil,
// in which case the /ai endpoints report unavailability.
func NewServer(store *db.Store, aiClient *ai.Client, defaultN int, defaultSeed int64) *Server {
	return &Server{
		store: store,
		ai:    aiClient,
		sweepDefaults: sweep.Request{
			N:    defaultN,
			Seed: defaultSeed,
		},
	}
}

//go:embed templates/*.html
var templatesFS embed.FS

// Routes returns the router for the API and the run browser.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /runs", s.handleCreateRun)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/evidence", s.handleGetEvidence)
	mux.HandleFunc("POST /sweeps", s.handleCreateSweep)
	mux.HandleFunc("GET /sweeps/{id}", s.handleGetSweep)
	mux.HandleFunc("GET /examples", s.handleListExamples)
	mux.HandleFunc("GET /examples/{name}", s.handleGetExample)
	mux.HandleFunc("GET /ai/status", s.handleAIStatus)
	mux.HandleFunc("POST /ai/generate", s.handleAIGenerate)
	mux.HandleFunc("POST /ai/explain", s.handleAIExplain)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	runs, err := s.store.ListRecentRuns(r.Context(), 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, runs); err != nil {
		log.Error().Err(err).Msg("render index")
	}
}

// runResponse is the payload returned by POST /runs.
type runResponse struct {
	RunID       string               `json:"run_id"`
	Verdict     model.Verdict        `json:"verdict"`
	FailedGate  string               `json:"failed_gate,omitempty"`
	TopFix      string               `json:"top_fix,omitempty"`
	TopFixPatch map[string]any       `json:"top_fix_patch,omitempty"`
	EvidenceURL string               `json:"evidence_url"`
	Evidence    model.EvidenceRecord `json:"evidence"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	taskSpec, err := spec.Parse(body)
	if err != nil {
		var verr *spec.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := gates.Evaluate(taskSpec)
	evidenceJSON, err := json.Marshal(record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode evidence: "+err.Error())
		return
	}

	topFix, topFixPatch := topFixSummary(record)

	runID := spec.NewID()
	rec := db.RunRecord{
		RunID:        runID,
		TaskID:       taskSpec.TaskID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Verdict:      string(record.Verdict),
		FailedGate:   record.FailedGate,
		TopFix:       topFix,
		EvidenceJSON: string(evidenceJSON),
	}
	if err := s.store.InsertRun(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		RunID:       runID,
		Verdict:     record.Verdict,
		FailedGate:  record.FailedGate,
		TopFix:      topFix,
		TopFixPatch: topFixPatch,
		EvidenceURL: "/runs/" + runID + "/evidence",
		Evidence:    record,
	})
}

// topFixSummary derives the headline fix and, for move fixes, a structured
// patch the UI can apply directly.
func topFixSummary(record model.EvidenceRecord) (string, map[string]any) {
	if len(record.CounterfactualFixes) == 0 {
		return "", nil
	}
	fix := record.CounterfactualFixes[0]
	topFix := string(fix.Type)
	if fix.ProposedPatch == nil {
		return topFix, nil
	}
	switch fix.Type {
	case model.FixMoveTarget:
		if xyz, ok := fix.ProposedPatch["projected_target_xyz"]; ok {
			return topFix, map[string]any{"kind": topFix, "new_xyz": xyz}
		}
	case model.FixMoveBase:
		if xyz, ok := fix.ProposedPatch["suggested_base_xyz"]; ok {
			return topFix, map[string]any{"kind": topFix, "new_xyz": xyz}
		}
	}
	return topFix, nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	runs, err := s.store.ListRecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []db.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetEvidence(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRun(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(rec.EvidenceJSON))
}

// sweepRequest is the payload accepted by POST /sweeps.
type sweepRequest struct {
	Base       json.RawMessage `json:"base"`
	Variations sweep.Variation `json:"variations"`
	N          int             `json:"n"`
	Seed       *int64          `json:"seed"`
}

// sweepResponse is returned by POST /sweeps and stored verbatim for
// GET /sweeps/{id}.
type sweepResponse struct {
	SweepID string        `json:"sweep_id"`
	TaskID  string        `json:"task_id"`
	N       int           `json:"n"`
	Seed    int64         `json:"seed"`
	Summary sweep.Summary `json:"summary"`
}

func (s *Server) handleCreateSweep(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	var req sweepRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "parse sweep request: "+err.Error())
		return
	}
	if len(req.Base) == 0 {
		writeError(w, http.StatusBadRequest, "base task spec is required")
		return
	}

	base, err := spec.Parse(req.Base)
	if err != nil {
		var verr *spec.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sreq := sweep.Request{
		Base:      base,
		Variation: req.Variations,
		N:         req.N,
		Seed:      s.sweepDefaults.Seed,
	}
	if sreq.N <= 0 {
		sreq.N = s.sweepDefaults.N
	}
	if req.Seed != nil {
		sreq.Seed = *req.Seed
	}

	_, _, summary, err := sweep.Sweep(sreq)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := sweepResponse{
		SweepID: spec.NewID(),
		TaskID:  base.TaskID,
		N:       sreq.N,
		Seed:    sreq.Seed,
		Summary: summary,
	}
	summaryJSON, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode summary: "+err.Error())
		return
	}
	rec := db.SweepRecord{
		SweepID:     resp.SweepID,
		TaskID:      resp.TaskID,
		N:           resp.N,
		Seed:        resp.Seed,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		SummaryJSON: string(summaryJSON),
	}
	if err := s.store.InsertSweep(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSweep(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetSweep(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "sweep not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(rec.SummaryJSON))
}

func (s *Server) handleListExamples(w http.ResponseWriter, _ *http.Request) {
	names := spec.ExampleNames()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetExample(w http.ResponseWriter, r *http.Request) {
	// PathValue never contains a slash, so traversal is not possible; the
	// embedded FS lookup rejects anything else.
	data, err := spec.Example(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleAIStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"ai_enabled": s.ai != nil && ai.Available()}
	if s.ai == nil || !ai.Available() {
		status["reason"] = "GOOGLE_API_KEY is not set"
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) requireAI(w http.ResponseWriter) bool {
	if s.ai == nil || !ai.Available() {
		writeError(w, http.StatusServiceUnavailable, "GOOGLE_API_KEY is not set; AI features are unavailable")
		return false
	}
	return true
}

func (s *Server) handleAIGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	yamlText, err := s.ai.GenerateTaskSpec(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"yaml": yamlText})
}

func (s *Server) handleAIExplain(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}
	var req struct {
		Evidence *model.EvidenceRecord `json:"evidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Evidence == nil {
		writeError(w, http.StatusBadRequest, "evidence is required")
		return
	}
	explanation, err := s.ai.ExplainEvidence(r.Context(), *req.Evidence)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
