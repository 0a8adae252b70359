package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cusip-cli/internal/model"
	"github.com/sells-group/cusip-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for CUSIP analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(cfg, "")
		if err != nil {
			return err
		}

		history := newResultHistory(cfg.Server.HistorySize)
		router := newRouter(p, history)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// historyEntry is one analyzed result kept in the per-process session history.
type historyEntry struct {
	ID         string               `json:"id"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
	Result     model.AnalysisResult `json:"result"`
}

// resultHistory keeps the most recent results in memory, newest first.
// Nothing is persisted beyond the process.
type resultHistory struct {
	mu      sync.Mutex
	entries []historyEntry
	limit   int
}

func newResultHistory(limit int) *resultHistory {
	if limit <= 0 {
		limit = 100
	}
	return &resultHistory{limit: limit}
}

func (h *resultHistory) add(result model.AnalysisResult) historyEntry {
	entry := historyEntry{
		ID:         uuid.NewString(),
		AnalyzedAt: time.Now().UTC(),
		Result:     result,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]historyEntry{entry}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return entry
}

func (h *resultHistory) list() []historyEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]historyEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// newRouter builds the chi router for the analysis API.
func newRouter(p *pipeline.Pipeline, history *resultHistory) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			CUSIP      string   `json:"cusip"`
			Attributes []string `json:"attributes"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		cusip := model.FormatCUSIP(body.CUSIP)
		if err := model.ValidateCUSIP(cusip); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		result := p.Process(req.Context(), cusip, body.Attributes, nil)
		entry := history.add(result)
		writeJSON(w, http.StatusOK, entry)
	})

	r.Get("/api/wam/{cusip}", func(w http.ResponseWriter, req *http.Request) {
		cusip := model.FormatCUSIP(chi.URLParam(req, "cusip"))
		if err := model.ValidateCUSIP(cusip); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		result := p.GetWAMOnly(req.Context(), cusip, nil)
		entry := history.add(result)
		writeJSON(w, http.StatusOK, entry)
	})

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, history.list())
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
