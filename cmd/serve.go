package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/store"
	"github.com/erictisme/outreach-ai-sub002/internal/verify"
	"github.com/erictisme/outreach-ai-sub002/internal/waterfall"
)

var servePort int

// serverEnv holds the long-lived pieces the HTTP handlers share.
type serverEnv struct {
	store    store.Store
	wcfg     waterfall.Config
	orch     *waterfall.Orchestrator
	verifier *verify.Verifier
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	Long:  "Exposes discovery and verification over HTTP for the UI layer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		wcfg, err := waterfallConfig()
		if err != nil {
			return err
		}

		env := &serverEnv{
			store:    st,
			wcfg:     wcfg,
			orch:     waterfall.New(wcfg, buildRegistry(nil)),
			verifier: buildVerifier(),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *serverEnv) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/discover", env.handleDiscover)
	r.Post("/v1/verify", env.handleVerify)

	return r
}

func (env *serverEnv) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		waterfall.Input
		// Credentials override configured provider keys for this run only.
		Credentials map[string]string `json:"credentials,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in := req.Input
	if len(in.Companies) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "companies is required"})
		return
	}

	orch := env.orch
	if len(req.Credentials) > 0 {
		orch = waterfall.New(env.wcfg, buildRegistry(req.Credentials))
	}

	ctx := r.Context()
	for _, c := range in.Companies {
		if err := env.store.UpsertCompany(ctx, c); err != nil {
			zap.L().Error("discover: save company failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store write failed"})
			return
		}
	}

	result, err := orch.Run(ctx, in)
	if err != nil {
		zap.L().Error("discover run failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := env.store.UpsertPersons(ctx, result.Persons); err != nil {
		zap.L().Error("discover: save persons failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store write failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (env *serverEnv) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID string `json:"company_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ctx := r.Context()
	companies, err := env.store.ListCompanies(ctx, store.CompanyFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store read failed"})
		return
	}
	persons, err := env.store.ListPersons(ctx, store.PersonFilter{CompanyID: req.CompanyID})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store read failed"})
		return
	}

	result, err := env.verifier.Run(ctx, companies, persons)
	if err != nil {
		zap.L().Error("verify run failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := env.store.UpsertPersons(ctx, result.Persons); err != nil {
		zap.L().Error("verify: save persons failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store write failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
