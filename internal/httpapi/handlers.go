package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/service"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service failures onto HTTP status codes. Vault problems
// are client-visible conditions, not server faults.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var formatErr *vault.FormatError
	switch {
	case errors.Is(err, vault.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &formatErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "inkognito",
		"version": s.version,
	})
}

type anonymizeBody struct {
	OutputDir      string   `json:"output_dir"`
	Files          []string `json:"files"`
	Directory      string   `json:"directory"`
	Patterns       []string `json:"patterns"`
	Recursive      *bool    `json:"recursive"`
	EntityTypes    []string `json:"entity_types"`
	ScoreThreshold float64  `json:"score_threshold"`
	DateShiftDays  int      `json:"date_shift_days"`
	VaultPath      string   `json:"vault_path"`
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var body anonymizeBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.OutputDir == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "output_dir is required"})
		return
	}

	recursive := true
	if body.Recursive != nil {
		recursive = *body.Recursive
	}

	result, err := s.service.Anonymize(r.Context(), service.AnonymizeRequest{
		OutputDir:      body.OutputDir,
		Files:          body.Files,
		Directory:      body.Directory,
		Patterns:       body.Patterns,
		Recursive:      recursive,
		EntityTypes:    body.EntityTypes,
		ScoreThreshold: body.ScoreThreshold,
		DateShiftDays:  body.DateShiftDays,
		SeedVault:      body.VaultPath,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type restoreBody struct {
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
	Directory string   `json:"directory"`
	VaultPath string   `json:"vault_path"`
	Patterns  []string `json:"patterns"`
	Recursive *bool    `json:"recursive"`
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var body restoreBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.OutputDir == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "output_dir is required"})
		return
	}

	recursive := true
	if body.Recursive != nil {
		recursive = *body.Recursive
	}

	result, err := s.service.Restore(r.Context(), service.RestoreRequest{
		OutputDir: body.OutputDir,
		Files:     body.Files,
		Directory: body.Directory,
		VaultPath: body.VaultPath,
		Patterns:  body.Patterns,
		Recursive: recursive,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type extractBody struct {
	FilePath   string `json:"file_path"`
	OutputPath string `json:"output_path"`
	Method     string `json:"extraction_method"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var body extractBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.FilePath == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file_path is required"})
		return
	}

	result, err := s.service.Extract(r.Context(), service.ExtractRequest{
		FilePath:   body.FilePath,
		OutputPath: body.OutputPath,
		Method:     body.Method,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type segmentBody struct {
	FilePath        string   `json:"file_path"`
	OutputDir       string   `json:"output_dir"`
	MaxTokens       int      `json:"max_tokens"`
	MinTokens       int      `json:"min_tokens"`
	BreakAtHeadings []string `json:"break_at_headings"`
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var body segmentBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.FilePath == "" || body.OutputDir == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file_path and output_dir are required"})
		return
	}

	result, err := s.service.Segment(r.Context(), service.SegmentRequest{
		FilePath:        body.FilePath,
		OutputDir:       body.OutputDir,
		MaxTokens:       body.MaxTokens,
		MinTokens:       body.MinTokens,
		BreakAtHeadings: body.BreakAtHeadings,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type splitBody struct {
	FilePath             string `json:"file_path"`
	OutputDir            string `json:"output_dir"`
	SplitLevel           string `json:"split_level"`
	IncludeParentContext *bool  `json:"include_parent_context"`
	PromptTemplate       string `json:"prompt_template"`
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var body splitBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.FilePath == "" || body.OutputDir == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file_path and output_dir are required"})
		return
	}

	includeParent := true
	if body.IncludeParentContext != nil {
		includeParent = *body.IncludeParentContext
	}

	result, err := s.service.SplitPrompts(r.Context(), service.SplitRequest{
		FilePath:             body.FilePath,
		OutputDir:            body.OutputDir,
		SplitLevel:           body.SplitLevel,
		IncludeParentContext: includeParent,
		PromptTemplate:       body.PromptTemplate,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// loggingMiddleware logs API requests with timing
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("API request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
