package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lifeguard-api/internal/application/shopping"
	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/validate"
)

// maxBulkItems bounds one bulk create request.
const maxBulkItems = 100

// ShoppingHandler handles shopping list endpoints.
type ShoppingHandler struct {
	svc shopping.Service
}

func NewShoppingHandler(svc shopping.Service) *ShoppingHandler { return &ShoppingHandler{svc: svc} }

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var f domain.ShoppingFilter
	q := r.URL.Query()
	if c := q.Get("category"); c != "" {
		if err := validate.Var(c, "oneof=produce dairy meat seafood bakery frozen pantry beverages snacks supplements other"); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
		f.Category = &c
	}
	if p := q.Get("purchased"); p != "" {
		b, err := strconv.ParseBool(p)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "purchased must be a boolean")
			return
		}
		f.Purchased = &b
	}
	items, err := h.svc.List(r.Context(), a.AccountID, f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.CreateShoppingItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.Create(r.Context(), a.AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// CreateBulk accepts a bare JSON array of items.
func (h *ShoppingHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var reqs []domain.CreateShoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(reqs) > maxBulkItems {
		writeError(w, http.StatusUnprocessableEntity, "too many items")
		return
	}
	for i := range reqs {
		if err := validate.Struct(reqs[i]); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "item "+strconv.Itoa(i)+": "+err.Error())
			return
		}
	}
	items, err := h.svc.CreateMany(r.Context(), a.AccountID, reqs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

func (h *ShoppingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	sum, err := h.svc.Summary(r.Context(), a.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *ShoppingHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Get(r.Context(), a.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req domain.UpdateShoppingItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.Update(r.Context(), a.AccountID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Toggle(r.Context(), a.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ShoppingHandler) ClearPurchased(w http.ResponseWriter, r *http.Request) {
	a, ok := currentAccount(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.ClearPurchased(r.Context(), a.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
