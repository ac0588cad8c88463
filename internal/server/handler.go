package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/limaJavier/timetabling-ga/internal/config"
	"github.com/limaJavier/timetabling-ga/internal/store"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"
)

type Handler struct {
	validate   *validator.Validate
	translator ut.Translator
	config     *config.Config
	store      *store.Store
	timetabler scheduler.Timetabler
	defaults   scheduler.Config

	Mux *chi.Mux
}

// NewHandler serves timetabling requests; defaults is the run configuration request overrides are applied to
func NewHandler(cfg *config.Config, store *store.Store, timetabler scheduler.Timetabler, defaults scheduler.Config) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		translator: trans,
		config:     cfg,
		store:      store,
		timetabler: timetabler,
		defaults:   defaults,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route("/v1", func(r chi.Router) {
		r.Get("/sample", h.GetSample)
		r.Post("/evaluate", h.Evaluate)
		r.Route("/timetables", func(r chi.Router) {
			r.Post("/", h.GenerateTimetable)
			r.Get("/", h.ListTimetables)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.run)
				r.Get("/", h.GetTimetable)
				r.Get("/csv", h.GetTimetableCsv)
			})
		})
	})
}
