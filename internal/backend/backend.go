// Package backend is the analysis service: it reads a GitHub repository,
// asks a language model about it and answers with the services it uses.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ThomasCrouzet/archmap/internal/analyzer"
	"github.com/ThomasCrouzet/archmap/internal/collector"
	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/ThomasCrouzet/archmap/internal/server"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Banner is the body of GET /.
const Banner = "GitHub Architecture Analyzer Backend is running!"

// ErrMissingFields is the 400 message for a request without owner or repo.
const ErrMissingFields = "Both owner and repo are required"

// RepoCollector reads the content of a repository.
type RepoCollector interface {
	Collect(ctx context.Context, owner, repo string) (*collector.RepoContent, error)
}

// RepoAnalyzer turns repository text into an analysis.
type RepoAnalyzer interface {
	Analyze(ctx context.Context, repoText string, hints []string) (*analyzer.Result, error)
}

// Service handles analysis requests.
type Service struct {
	collector RepoCollector
	analyzer  RepoAnalyzer
	log       *zap.Logger
	newID     func() string
}

func New(c RepoCollector, a RepoAnalyzer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{collector: c, analyzer: a, log: log, newID: uuid.NewString}
}

// RegisterRoutes mounts the service on r.
func (s *Service) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Post("/analyze", s.handleAnalyze)
}

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Banner))
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteJSON(w, http.StatusBadRequest, errorBody("Invalid JSON body: "+err.Error()))
		return
	}
	req.Owner = strings.TrimSpace(req.Owner)
	req.Repo = strings.TrimSpace(req.Repo)
	if req.Owner == "" || req.Repo == "" {
		server.WriteJSON(w, http.StatusBadRequest, errorBody(ErrMissingFields))
		return
	}

	res, err := s.Analyze(r.Context(), req)
	if err != nil {
		s.log.Error("analysis failed", zap.String("repo", req.FullName()), zap.Error(err))
		server.WriteJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	server.WriteJSON(w, http.StatusOK, res)
}

// Analyze collects and analyzes one repository. Collection and model failures
// are reported inside the result text; only cancellation is returned as an error.
func (s *Service) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResult, error) {
	id := s.newID()
	log := s.log.With(zap.String("id", id), zap.String("repo", req.FullName()))
	log.Info("analyzing repository")

	var (
		text  string
		hints []string
	)
	content, err := s.collector.Collect(ctx, req.Owner, req.Repo)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("collecting repository content", zap.Error(err))
		text = collector.ErrorText(req.Owner, req.Repo, err)
	} else {
		text = content.Text()
		hints = content.Hints
		log.Debug("collected repository content", zap.Int("files", len(content.Files)), zap.Strings("hints", hints))
	}

	result, err := s.analyzer.Analyze(ctx, text, hints)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("analyzing repository", zap.Error(err))
		result = analyzer.ErrorResult(err)
	}

	services := result.Services
	if services == nil {
		// clients reject a null services_array
		services = []string{}
	}

	log.Info("analysis complete", zap.Strings("services", services))
	return &model.AnalysisResult{
		Success:  true,
		ID:       id,
		Owner:    req.Owner,
		Repo:     req.Repo,
		Analysis: result.Analysis,
		Services: services,
	}, nil
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
