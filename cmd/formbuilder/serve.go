package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/components/listing"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const shutdownTimeout = 5 * time.Second

func serveFlags(fs *pflag.FlagSet) {
	fs.String("metrics-path", "", "path serving Prometheus metrics")
}

func runServe(ctx context.Context, e *env, _ []string) error {
	if path := stringFlag(e.flags, "metrics-path"); path != "" {
		e.cfg.Server.MetricsPath = path
	}
	handler, err := newServer(e, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              e.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		e.log.Infow("serving forms", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

type formServer struct {
	env      *env
	renderer *vanilla.Renderer
}

// newServer routes:
//
//	GET  /healthz
//	GET  {metrics path}
//	GET  /assets/*
//	GET  /api/cities
//	GET  /forms/{draftID}/steps/{stepID}
//	POST /forms/{draftID}/steps/{stepID}
//	GET  /forms/{draftID}/openapi.yaml
func newServer(e *env, reg *prometheus.Registry) (http.Handler, error) {
	renderer, err := vanilla.New(
		vanilla.WithStylesheet("/assets/formbuilder.css"),
		vanilla.WithLogger(e.log),
	)
	if err != nil {
		return nil, err
	}
	s := &formServer{env: e, renderer: renderer}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	metricsPath := e.cfg.Server.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	router.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	cities := listing.New(listing.WithRegisterer(reg), listing.WithLogger(e.log))
	if _, err := cities.RegisterRoutes(router, "/"); err != nil {
		return nil, err
	}

	router.Route("/forms/{draftID}", func(r chi.Router) {
		r.Get("/openapi.yaml", s.openAPI)
		r.Get("/steps/{stepID}", s.showStep)
		r.Post("/steps/{stepID}", s.submitStep)
	})
	return corsHandler(e.cfg.Server.CORSOrigins).Handler(router), nil
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}

func (s *formServer) requestLocale(r *http.Request) locale.Locale {
	if raw := r.URL.Query().Get("lang"); raw != "" {
		return locale.Parse(raw)
	}
	if raw := r.Header.Get("Accept-Language"); raw != "" {
		return locale.Parse(strings.SplitN(raw, ",", 2)[0])
	}
	return s.env.locale
}

func (s *formServer) loadStep(w http.ResponseWriter, r *http.Request) (model.Application, model.Step, bool) {
	app, err := s.env.drafts.Load(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			http.NotFound(w, r)
		} else {
			s.env.log.Errorw("load draft failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return model.Application{}, model.Step{}, false
	}
	step, ok := app.FindStep(chi.URLParam(r, "stepID"))
	if !ok {
		http.NotFound(w, r)
		return model.Application{}, model.Step{}, false
	}
	return app, step, true
}

func (s *formServer) render(w http.ResponseWriter, r *http.Request, status int, step model.Step, values map[string]any, errs validation.Errors) {
	out, err := s.renderer.Render(r.Context(), step, render.RenderOptions{
		Locale: s.requestLocale(r),
		Action: r.URL.Path,
		Method: http.MethodPost,
		Values: values,
		Errors: errs,
		Hidden: []render.HiddenField{render.Hidden("stepId", step.ID)},
	})
	if err != nil {
		s.env.log.Errorw("render step failed", "step", step.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *formServer) showStep(w http.ResponseWriter, r *http.Request) {
	_, step, ok := s.loadStep(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, step, nil, nil)
}

func (s *formServer) submitStep(w http.ResponseWriter, r *http.Request) {
	_, step, ok := s.loadStep(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	values := make(map[string]any, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}

	errs := openapi.ValidateSubmission(step, values, openapi.WithLocale(s.requestLocale(r)))
	if !errs.Empty() {
		s.render(w, r, http.StatusUnprocessableEntity, step, values, errs)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"stepId": step.ID, "values": values})
}

func (s *formServer) openAPI(w http.ResponseWriter, r *http.Request) {
	app, err := s.env.drafts.Load(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	out, err := openapi.MarshalYAML(openapi.Document(app))
	if err != nil {
		http.Error(w, fmt.Sprintf("openapi: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(out)
}
