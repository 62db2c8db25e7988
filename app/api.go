package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/registry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Sugar().Errorw("API server stopped", "err", err)
				}
			}()
			log.Sugar().Infow("API listening", "addr", addr)
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if creds := cfg.GetCreds(); len(creds) > 0 {
			r.Use(middleware.BasicAuth("billwatch", creds))
		} else {
			log.Sugar().Info("Auth is disabled since no credentials are defined")
		}

		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", ctrl.listTenants)
			r.Get("/{server_id}/status", ctrl.status)
			r.Post("/{server_id}/bills", ctrl.mark)
			r.Delete("/{server_id}/bills/{bill}", ctrl.unmark)
		})
	})

	return r
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

// fail maps command errors onto status codes.
func (ctrl *controller) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lib.ErrInvalidBill):
		ctrl.reject(w, http.StatusBadRequest, err)
	case errors.Is(err, registry.ErrUnknownTenant):
		ctrl.reject(w, http.StatusNotFound, err)
	default:
		ctrl.log.Sugar().Errorw("Request failed", "err", err)
		ctrl.reject(w, http.StatusInternalServerError, err)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		ctrl.log.Sugar().Errorw("Request failed", "err", err)
		ctrl.reject(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func (ctrl *controller) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := ctrl.svc.Tenants(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[*models.Tenant, TenantView](tenants.Refs()))
}

func (ctrl *controller) status(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "server_id")

	text, err := ctrl.svc.Status(r.Context(), serverID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, ReplyView{serverID, text})
}

func (ctrl *controller) mark(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "server_id")

	text, err := ctrl.svc.Mark(r.Context(), serverID, r.FormValue("bill"))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, ReplyView{serverID, text})
}

func (ctrl *controller) unmark(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "server_id")

	text, err := ctrl.svc.Unmark(r.Context(), serverID, chi.URLParam(r, "bill"))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, ReplyView{serverID, text})
}
