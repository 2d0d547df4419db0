package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lifeguard-api/internal/application/workout"
	"github.com/lifeguard-api/internal/domain"
)

// WorkoutHandler handles workout and exercise endpoints.
type WorkoutHandler struct {
	svc workout.Service
}

func NewWorkoutHandler(svc workout.Service) *WorkoutHandler { return &WorkoutHandler{svc: svc} }

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := domain.WorkoutFilter{StartDate: q.Get("start_date"), EndDate: q.Get("end_date")}
	if !validDate(f.StartDate) || !validDate(f.EndDate) {
		writeError(w, http.StatusUnprocessableEntity, "dates must be YYYY-MM-DD")
		return
	}
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		writeError(w, http.StatusUnprocessableEntity, "start_date must not be after end_date")
		return
	}
	f.Limit, f.Offset = parseWindow(r)
	items, err := h.svc.List(r.Context(), a.AccountID, f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.CreateWorkoutRequest
	if !decode(w, r, &req) {
		return
	}
	wo, err := h.svc.Create(r.Context(), a.AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	wo, err := h.svc.Get(r.Context(), a.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.UpdateWorkoutRequest
	if !decode(w, r, &req) {
		return
	}
	wo, err := h.svc.Update(r.Context(), a.AccountID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), a.AccountID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkoutHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.CreateExerciseRequest
	if !decode(w, r, &req) {
		return
	}
	ex, err := h.svc.AddExercise(r.Context(), a.AccountID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (h *WorkoutHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.UpdateExerciseRequest
	if !decode(w, r, &req) {
		return
	}
	ex, err := h.svc.UpdateExercise(r.Context(), a.AccountID, chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (h *WorkoutHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteExercise(r.Context(), a.AccountID, chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkoutHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	sum, err := h.svc.WeeklySummary(r.Context(), a.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
