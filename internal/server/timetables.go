package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/limaJavier/timetabling-ga/internal/csvio"
	"github.com/limaJavier/timetabling-ga/internal/store"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"
)

type GenerateRequest struct {
	Input      model.Input     `json:"input" validate:"required"`
	Config     json.RawMessage `json:"config,omitempty"` // Overrides applied on top of the server's run configuration
	Seed       *uint64         `json:"seed,omitempty"`
	TimeBudget int             `json:"timeBudgetSeconds" validate:"gte=0"`
}

type EvaluateRequest struct {
	Input       model.Input        `json:"input" validate:"required"`
	Timetable   model.Timetable    `json:"timetable" validate:"required"`
	Weights     *model.Weights     `json:"weights,omitempty"`
	Preferences *model.Preferences `json:"preferences,omitempty"`
}

type EvaluateResponse struct {
	Score    model.Score `json:"score"`
	Feasible bool        `json:"feasible"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, http.StatusOK, "ok", nil)
}

func (h *Handler) GetSample(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, http.StatusOK, "sample input", model.SampleInput())
}

// runConfig applies the request's overrides to the server defaults and caps the time budget
func (h *Handler) runConfig(req GenerateRequest) (scheduler.Config, error) {
	config := h.defaults
	if config.Seed != nil {
		seed := *config.Seed
		config.Seed = &seed
	}
	if len(req.Config) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(req.Config))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&config); err != nil {
			return scheduler.Config{}, fmt.Errorf("invalid config: %w", err)
		}
	}
	if req.Seed != nil {
		config.Seed = req.Seed
	}
	if req.TimeBudget > 0 {
		config.TimeBudget = time.Duration(req.TimeBudget) * time.Second
	}

	maxBudget := time.Duration(h.config.Scheduler.MaxTimeBudget) * time.Second
	if maxBudget > 0 && (config.TimeBudget == 0 || config.TimeBudget > maxBudget) {
		config.TimeBudget = maxBudget
	}

	if err := h.validate.Struct(config); err != nil {
		return scheduler.Config{}, err
	}
	return config, nil
}

func (h *Handler) GenerateTimetable(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	config, err := h.runConfig(req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := h.timetabler.Generate(r.Context(), req.Input, config)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrInvalidCourseData):
			h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	run := store.Run{
		Id:        result.Id,
		CreatedAt: time.Now().UTC(),
		Input:     req.Input,
		Config:    config,
		Result:    result,
	}
	if err := h.store.Save(r.Context(), run); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	slog.Info("timetable generated", "id", result.Id, "seed", result.Seed, "hard", result.Score.Hard, "soft", result.Score.Soft, "reason", result.Reason)

	h.successResponse(w, r, http.StatusCreated, "timetable generated", result)
}

func (h *Handler) ListTimetables(w http.ResponseWriter, r *http.Request) {
	limit := h.config.Scheduler.HistoryLimit
	if param := r.URL.Query().Get("limit"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed < 0 {
			h.errorResponse(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	summaries, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "timetables", summaries)
}

func (h *Handler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(RunCtxKey).(store.Run)
	h.successResponse(w, r, http.StatusOK, "timetable", run)
}

func (h *Handler) GetTimetableCsv(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(RunCtxKey).(store.Run)

	content, err := csvio.TimetableString(run.Result.Timetable, run.Input)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"timetable-%v.csv\"", run.Id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content)); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weights, preferences := h.defaults.Weights, h.defaults.Preferences
	if req.Weights != nil {
		weights = *req.Weights
	}
	if req.Preferences != nil {
		preferences = *req.Preferences
	}

	if err := req.Input.Validate(); err != nil {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	evaluator, err := model.NewEvaluator(req.Input, weights, preferences)
	if err != nil {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	score := evaluator.Evaluate(req.Timetable)
	h.successResponse(w, r, http.StatusOK, "timetable evaluated", EvaluateResponse{Score: score, Feasible: score.Feasible()})
}
