package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/smartmri/planner/recommend"
	"github.com/smartmri/planner/runlog"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planning HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}

			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           newRouter(d),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", "addr", cfg.ListenAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newRouter(d *deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/api/plan", handlePlan(d))

	r.Get("/api/runs", handleRuns(d))
	if d.store != nil {
		r.Post("/api/internal/runs", runlog.IngestHandler(d.store))
	}

	return r
}

func handlePlan(d *deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recommend.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		result, err := d.planner.Plan(r.Context(), req)
		switch {
		case errors.Is(err, recommend.ErrEmptyPatientText), errors.Is(err, recommend.ErrNoUsableSources):
			httpError(w, http.StatusUnprocessableEntity, err.Error())
			return
		case err != nil:
			slog.Error("plan failed", "error", err)
			httpError(w, http.StatusInternalServerError, "planning failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleRuns(d *deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.store == nil {
			httpError(w, http.StatusNotFound, "run log disabled")
			return
		}
		entries, err := d.store.Recent(50)
		if err != nil {
			slog.Error("list runs", "error", err)
			httpError(w, http.StatusInternalServerError, "query failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": entries})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
