package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lifeguard-api/internal/application/nutrition"
	"github.com/lifeguard-api/internal/domain"
)

// NutritionHandler handles meal, water and daily summary endpoints.
type NutritionHandler struct {
	svc nutrition.Service
}

func NewNutritionHandler(svc nutrition.Service) *NutritionHandler {
	return &NutritionHandler{svc: svc}
}

func (h *NutritionHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	f := domain.MealFilter{Date: r.URL.Query().Get("meal_date")}
	if !validDate(f.Date) {
		writeError(w, http.StatusUnprocessableEntity, "meal_date must be YYYY-MM-DD")
		return
	}
	f.Limit, f.Offset = parseWindow(r)
	meals, err := h.svc.ListMeals(r.Context(), a.AccountID, f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (h *NutritionHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.CreateMealRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.CreateMeal(r.Context(), a.AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *NutritionHandler) GetMeal(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	m, err := h.svc.GetMeal(r.Context(), a.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *NutritionHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.UpdateMealRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.UpdateMeal(r.Context(), a.AccountID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *NutritionHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteMeal(r.Context(), a.AccountID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NutritionHandler) ListWater(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	date := r.URL.Query().Get("log_date")
	if !validDate(date) {
		writeError(w, http.StatusUnprocessableEntity, "log_date must be YYYY-MM-DD")
		return
	}
	logs, err := h.svc.ListWater(r.Context(), a.AccountID, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *NutritionHandler) LogWater(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.CreateWaterLogRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := h.svc.LogWater(r.Context(), a.AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// TodayWater responds with a bare integer: the glasses logged today.
func (h *NutritionHandler) TodayWater(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	total, err := h.svc.TodayWater(r.Context(), a.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

func (h *NutritionHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	date := chi.URLParam(r, "date")
	if date == "" || !validDate(date) {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	sum, err := h.svc.DailySummary(r.Context(), a, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
