package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vtinadev/leoplay/internal/config"
	"github.com/vtinadev/leoplay/internal/content"
	"github.com/vtinadev/leoplay/internal/domain"
	"github.com/vtinadev/leoplay/internal/effects"
	"github.com/vtinadev/leoplay/internal/engine"
	"github.com/vtinadev/leoplay/internal/reward"
	"github.com/vtinadev/leoplay/internal/stage"
)

// Version is the daemon version reported by the status endpoint.
const Version = "0.1.0"

// Server is the leoplay daemon HTTP server
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	// Services
	registry    *content.Registry
	diagnostics *content.Diagnostics
	resolver    *stage.Resolver
	ledger      *reward.Ledger
	sessions    *sessionRegistry
	access      engine.AccessFunc
	effectsConn *effects.Connection
	levelOrder  []string
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config      *config.LocalConfig
	ContentPath string // overrides Config.Content.Path when set
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	s := &Server{
		cfg:      cfg.Config,
		router:   http.NewServeMux(),
		ledger:   reward.NewLedger(),
		sessions: newSessionRegistry(),
	}

	contentPath := cfg.ContentPath
	if contentPath == "" {
		contentPath = cfg.Config.Content.Path
	}

	loader := content.NewLoader(contentPath)
	validator := content.NewValidator(slog.Default())
	s.registry = content.NewRegistry(loader, validator)
	if err := s.registry.Load(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if report := s.registry.Report(); report != nil && !report.Valid {
		slog.Warn("catalog loaded with validation errors",
			"errors", report.ErrorCount(),
			"warnings", report.WarningCount(),
		)
	}

	s.diagnostics = content.NewDiagnostics(s.registry)
	s.resolver = stage.NewResolver(s.registry, slog.Default())
	s.levelOrder = s.registry.Levels()
	s.access = reward.AccessByCompletion(s.ledger, s.levelOrder, s.totalStagesOf)

	// Optional effects broker. The daemon keeps running without it.
	if cfg.Config.Effects.Enabled {
		conn, err := effects.NewConnection(cfg.Config.Effects.BrokerURL)
		if err != nil {
			slog.Warn("effects broker not available, effects stay local", "error", err)
		} else {
			s.effectsConn = conn
		}
	}

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	handler := recoveryMiddleware(correlationIDMiddleware(loggingMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Catalog
	s.router.HandleFunc("GET /v1/levels", s.handleListLevels)
	s.router.HandleFunc("GET /v1/levels/{level}", s.handleGetLevel)
	s.router.HandleFunc("GET /v1/levels/{level}/stages/{n}", s.handleGetStage)
	s.router.HandleFunc("POST /v1/validate", s.handleValidate)

	// Sessions
	s.router.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.router.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)

	// Play actions
	s.router.HandleFunc("POST /v1/sessions/{id}/answer", s.handleAnswer)
	s.router.HandleFunc("POST /v1/sessions/{id}/skip", s.handleSkip)
	s.router.HandleFunc("POST /v1/sessions/{id}/repeat", s.handleRepeat)
	s.router.HandleFunc("POST /v1/sessions/{id}/next", s.handleNext)
	s.router.HandleFunc("POST /v1/sessions/{id}/prev", s.handlePrev)
	s.router.HandleFunc("POST /v1/sessions/{id}/goto", s.handleGoTo)
	s.router.HandleFunc("POST /v1/sessions/{id}/finish", s.handleFinish)
	s.router.HandleFunc("POST /v1/sessions/{id}/audio", s.handlePlayAudio)
	s.router.HandleFunc("POST /v1/sessions/{id}/listen", s.handleStartListening)
	s.router.HandleFunc("DELETE /v1/sessions/{id}/listen", s.handleStopListening)
	s.router.HandleFunc("GET /v1/sessions/{id}/summary", s.handleGetSummary)

	// Progress
	s.router.HandleFunc("GET /v1/timeline", s.handleTimeline)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting leoplay daemon",
		"addr", s.server.Addr,
		"levels", len(s.levelOrder),
		"effects", s.effectsConn != nil,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")

	s.sessions.CloseAll()

	if s.effectsConn != nil {
		if err := s.effectsConn.Close(); err != nil {
			slog.Warn("failed to close effects connection", "error", err)
		}
	}

	return s.server.Shutdown(ctx)
}

// totalStagesOf returns the number of stages a level has, 0 when unknown.
func (s *Server) totalStagesOf(level string) int {
	def, err := s.registry.Level(level)
	if err != nil {
		return 0
	}
	return len(def.SubtypeOrder())
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":   "running",
		"version":  Version,
		"levels":   len(s.levelOrder),
		"sessions": s.sessions.Count(),
		"effects":  s.effectsConn != nil && s.effectsConn.IsConnected(),
		"points":   s.ledger.Points(),
		"stars":    s.ledger.Stars(),
	})
}

// Catalog handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	result := make([]map[string]interface{}, 0, len(s.levelOrder))
	for _, id := range s.levelOrder {
		def, err := s.registry.Level(id)
		if err != nil {
			continue
		}
		count, _ := s.diagnostics.ExerciseCount(id)
		stages := len(def.SubtypeOrder())
		result = append(result, map[string]interface{}{
			"id":        id,
			"name":      def.Meta.LevelName,
			"animal":    def.Meta.Animal,
			"icon":      def.Meta.Icon,
			"color":     def.Meta.Color,
			"stages":    stages,
			"exercises": count,
			"unlocked":  s.access(id),
			"progress":  s.ledger.Progress(id, stages),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"levels": result,
	})
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("level")

	def, err := s.registry.Level(id)
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "level not found", err)
		return
	}

	stages := len(def.SubtypeOrder())
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"id":        id,
		"meta":      def.Meta,
		"order":     def.SubtypeOrder(),
		"stageMeta": def.StageMeta,
		"stages":    stages,
		"unlocked":  s.access(id),
		"progress":  s.ledger.Progress(id, stages),
	})
}

func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	level := r.PathValue("level")
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid stage number", err)
		return
	}

	resolved, err := s.resolver.Resolve(level, n)
	if err != nil {
		if errors.Is(err, domain.ErrLevelNotFound) {
			s.jsonError(w, http.StatusNotFound, "level not found", nil)
			return
		}
		if errors.Is(err, domain.ErrNoSubtypes) {
			s.jsonError(w, http.StatusUnprocessableEntity, "level has no stages", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to resolve stage", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resolved)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Reload(); err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to reload catalog", err)
		return
	}

	// The level set is fixed for the daemon's lifetime; reload refreshes
	// exercise content for levels that already exist.
	report := s.registry.Report()
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"valid":    report.Valid,
		"errors":   report.ErrorCount(),
		"warnings": report.WarningCount(),
		"summary":  report.Summaries,
	})
}

// Session handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level string `json:"level"`
		Stage int    `json:"stage"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Level == "" {
		s.jsonError(w, http.StatusBadRequest, "level is required", nil)
		return
	}
	if req.Stage == 0 {
		req.Stage = 1
	}

	id := NewSessionID()
	buffer := effects.NewBuffer()
	dispatcher := s.sessionDispatcher(buffer, id)

	controller := engine.New(s.resolver, s.access, s.ledger, dispatcher, engine.Options{
		AdvanceDelay:    time.Duration(s.cfg.Game.AdvanceDelayMS) * time.Millisecond,
		PointsPerAnswer: s.cfg.Game.PointsPerAnswer,
		HintThreshold:   s.cfg.Game.HintThreshold,
		Logger:          slog.Default(),
		OnStageComplete: func(summary *domain.StageSummary) {
			s.ledger.SetStageResult(summary.Level, summary.Stage, reward.StageResult{
				Stars:       summary.Stars,
				Score:       summary.Score,
				Done:        true,
				CompletedAt: summary.CompletedAt,
			})
		},
	})

	if err := controller.LoadStage(r.Context(), req.Level, req.Stage); err != nil {
		controller.Close()
		if errors.Is(err, domain.ErrLevelNotFound) {
			s.jsonError(w, http.StatusNotFound, "level not found", nil)
			return
		}
		s.jsonError(w, http.StatusUnprocessableEntity, "failed to load stage", err)
		return
	}

	sess := s.sessions.Add(id, req.Level, req.Stage, controller, buffer)

	s.jsonResponse(w, http.StatusCreated, map[string]interface{}{
		"session": s.sessionState(sess),
		"effects": buffer.Drain(),
	})
}

// sessionDispatcher builds the dispatcher a new session's commands flow
// through: always the response buffer, plus the broker when connected.
func (s *Server) sessionDispatcher(buffer *effects.Buffer, sessionID string) effects.Dispatcher {
	if s.effectsConn == nil {
		return buffer
	}
	publisher := effects.NewPublisher(s.effectsConn, sessionID, slog.Default())
	resilient := effects.NewResilientDispatcher(publisher, effects.ResilientConfig{})
	return effects.NewMulti(buffer, resilient)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"session": s.sessionState(sess),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Remove(r.PathValue("id")); err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// Play action handlers

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	var req struct {
		Answer          domain.Answer `json:"answer"`
		SuppressAdvance bool          `json:"suppressAdvance"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ok, _ := sess.Controller.CheckAnswer(r.Context(), req.Answer, engine.CheckMeta{
		SuppressAdvance: req.SuppressAdvance,
	})

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"correct": ok,
		"session": s.sessionState(sess),
		"effects": sess.Buffer.Drain(),
	})
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, func(ctx context.Context, sess *PlaySession) {
		sess.Controller.Skip(ctx)
	})
}

func (s *Server) handleRepeat(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, func(ctx context.Context, sess *PlaySession) {
		sess.Controller.Repeat(ctx)
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, func(ctx context.Context, sess *PlaySession) {
		sess.Controller.Next(ctx)
	})
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, func(ctx context.Context, sess *PlaySession) {
		sess.Controller.Prev(ctx)
	})
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	var req struct {
		Index int `json:"index"` // 0-based
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sess.Controller.GoTo(r.Context(), req.Index)

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"session": s.sessionState(sess),
		"effects": sess.Buffer.Drain(),
	})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	summary := sess.Controller.FinishStage(r.Context())

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"session": s.sessionState(sess),
		"effects": sess.Buffer.Drain(),
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	summary := sess.Controller.Summary()
	if summary == nil {
		s.jsonError(w, http.StatusNotFound, "stage not finished", nil)
		return
	}

	s.jsonResponse(w, http.StatusOK, summary)
}

func (s *Server) handlePlayAudio(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	played := sess.Controller.PlayCurrentAudio(r.Context())

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"played":  played,
		"session": s.sessionState(sess),
		"effects": sess.Buffer.Drain(),
	})
}

func (s *Server) handleStartListening(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	listening := sess.Controller.StartListening(r.Context())

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"listening": listening,
		"session":   s.sessionState(sess),
		"effects":   sess.Buffer.Drain(),
	})
}

func (s *Server) handleStopListening(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, func(ctx context.Context, sess *PlaySession) {
		sess.Controller.StopListening(ctx)
	})
}

// handleAction runs one bodyless play action and returns the updated state.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, action func(context.Context, *PlaySession)) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	action(r.Context(), sess)

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"session": s.sessionState(sess),
		"effects": sess.Buffer.Drain(),
	})
}

// Progress handlers

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	timeline := make([]map[string]interface{}, 0, len(s.levelOrder))
	for _, id := range s.levelOrder {
		def, err := s.registry.Level(id)
		if err != nil {
			continue
		}
		stages := len(def.SubtypeOrder())
		timeline = append(timeline, map[string]interface{}{
			"id":       id,
			"name":     def.Meta.LevelName,
			"animal":   def.Meta.Animal,
			"icon":     def.Meta.Icon,
			"color":    def.Meta.Color,
			"stages":   stages,
			"unlocked": s.access(id),
			"progress": s.ledger.Progress(id, stages),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"timeline": timeline,
		"points":   s.ledger.Points(),
		"stars":    s.ledger.Stars(),
	})
}

// sessionState snapshots a session for API responses.
func (s *Server) sessionState(sess *PlaySession) map[string]interface{} {
	c := sess.Controller

	state := map[string]interface{}{
		"id":         sess.ID,
		"level":      sess.Level,
		"stage":      sess.Stage,
		"createdAt":  sess.CreatedAt.Format(time.RFC3339),
		"state":      c.State(),
		"index":      c.Index(),
		"total":      c.Total(),
		"canAdvance": c.CanAdvance(),
	}

	if msg := c.StateMessage(); msg != "" {
		state["message"] = msg
	}
	if resolved := c.Resolved(); resolved != nil {
		state["stageInfo"] = resolved.Meta
		state["subtype"] = resolved.Subtype
	}
	if current := c.Current(); current != nil {
		state["exercise"] = current
	}
	if results := c.Results(); len(results) > 0 {
		state["results"] = results
	}

	return state
}

// Helper methods

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
