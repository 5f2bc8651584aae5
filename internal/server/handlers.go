package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/training"
)

const contentTypeJSON = "application/json"

type scheduleDay struct {
	Day       string   `json:"day"`
	Exercises []string `json:"exercises"`
}

type updateSetRequest struct {
	Value *string `json:"value"`
}

type preferences struct {
	DarkMode *bool `json:"darkMode"`
}

type handler struct {
	tracker *tracker.Tracker
	metrics *Metrics
}

func writeResponseBytes(w http.ResponseWriter, contentType string, message []byte, status int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response: %s", err)
	}
}

func writeJSON(w http.ResponseWriter, value any, status int) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	writeResponseBytes(w, contentTypeJSON, data, status)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	entries := h.tracker.Schedule().Entries()
	days := make([]scheduleDay, len(entries))
	for i, entry := range entries {
		days[i] = scheduleDay{Day: entry.Day, Exercises: entry.Exercises}
	}
	writeJSON(w, days, http.StatusOK)
}

func (h *handler) handleExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.tracker.ExerciseOptions(), http.StatusOK)
}

func (h *handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	data, err := training.Encode(h.tracker.Snapshot())
	if err != nil {
		log.Errorf("failed to encode training log: %s", err)
		http.Error(w, "failed to encode training log", http.StatusInternalServerError)
		return
	}
	writeResponseBytes(w, contentTypeJSON, data, http.StatusOK)
}

func (h *handler) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sched := h.tracker.Schedule()

	dayVar, err := url.PathUnescape(vars["day"])
	if err != nil {
		http.Error(w, "error, invalid day", http.StatusBadRequest)
		return
	}
	exerciseVar, err := url.PathUnescape(vars["exercise"])
	if err != nil {
		http.Error(w, "error, invalid exercise", http.StatusBadRequest)
		return
	}

	set, err := strconv.Atoi(vars["set"])
	if err != nil || set < 0 || set >= training.SetsPerExercise {
		http.Error(w, "error, set must be between 0 and 3", http.StatusBadRequest)
		return
	}
	field, err := training.ParseField(vars["field"])
	if err != nil {
		http.Error(w, "error, field must be weight or reps", http.StatusBadRequest)
		return
	}

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		http.Error(w, `error, body must be {"value": "..."}`, http.StatusBadRequest)
		return
	}

	day, ok := sched.ResolveDay(dayVar)
	if !ok {
		http.Error(w, "day not found", http.StatusNotFound)
		return
	}
	exercise, ok := sched.ResolveExercise(day, exerciseVar)
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	record, err := h.tracker.Update(r.Context(), day, exercise, set, field, *req.Value)
	if err != nil {
		if errors.Is(err, training.ErrInvalidKey) || errors.Is(err, training.ErrUnknownField) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to update [%s] [%s] set %d: %s", day, exercise, set, err)
		http.Error(w, "error, failed to save training log", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterUpdates.Inc()
	writeJSON(w, record, http.StatusOK)
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	points := h.tracker.Chart(r.URL.Query().Get("exercise"))
	if points == nil {
		points = []training.ChartPoint{}
	}
	writeJSON(w, points, http.StatusOK)
}

func (h *handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	dark := h.tracker.DarkMode()
	writeJSON(w, preferences{DarkMode: &dark}, http.StatusOK)
}

func (h *handler) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DarkMode == nil {
		http.Error(w, `error, body must be {"darkMode": true|false}`, http.StatusBadRequest)
		return
	}

	if err := h.tracker.SetDarkMode(r.Context(), *req.DarkMode); err != nil {
		log.Errorf("failed to save dark mode: %s", err)
		http.Error(w, "error, failed to save preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, req, http.StatusOK)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	opts := h.tracker.CSVOptions()
	if rawParam := r.URL.Query().Get("raw"); rawParam != "" {
		raw, err := strconv.ParseBool(rawParam)
		if err != nil {
			http.Error(w, "error, raw must be true or false", http.StatusBadRequest)
			return
		}
		opts.Raw = raw
	}

	var buf bytes.Buffer
	if err := h.tracker.WriteCSV(&buf, opts); err != nil {
		log.Errorf("failed to export training log: %s", err)
		http.Error(w, "error, failed to export training log", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterExports.Inc()
	w.Header().Set("Content-Disposition", `attachment; filename="`+training.CSVFilename+`"`)
	writeResponseBytes(w, training.CSVContentType, buf.Bytes(), http.StatusOK)
}
