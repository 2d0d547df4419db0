package handler

import (
	"net/http"

	"github.com/lifeguard-api/internal/application/account"
	"github.com/lifeguard-api/internal/application/export"
	"github.com/lifeguard-api/internal/domain"
)

// UserHandler serves the authenticated account's own profile, goals and exports.
type UserHandler struct {
	svc    account.Service
	export export.Service
}

func NewUserHandler(svc account.Service, exp export.Service) *UserHandler {
	return &UserHandler{svc: svc, export: exp}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.UpdateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	updated, err := h.svc.Update(r.Context(), a.TelegramID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) Goals(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	goals, err := h.svc.Goals(r.Context(), a.TelegramID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *UserHandler) SetGoals(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var goals domain.Goals
	if !decode(w, r, &goals) {
		return
	}
	updated, err := h.svc.SetGoals(r.Context(), a.TelegramID, goals)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.Goals)
}

func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	res, err := h.export.Export(r.Context(), a)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
