package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shoplist/api/internal/api/types"
	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/models"
	"github.com/shoplist/api/internal/services"
)

type ItemsHandler struct {
	items    services.ItemService
	validate *validator.Validate
}

func NewItemsHandler(items services.ItemService, v *validator.Validate) *ItemsHandler {
	return &ItemsHandler{items: items, validate: v}
}

func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	items, err := h.items.ListItems(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	var req types.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "Item data is required.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "name is required and price must be greater than 0")
		return
	}

	it, err := h.items.CreateItem(r.Context(), caller, &services.CreateItemInput{Name: req.Name, Price: req.Price})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/items/%d", it.ID))
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorStr(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.items.DeleteItem(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CalculatePrice responds with the bare sum of the caller's active item prices.
func (h *ItemsHandler) CalculatePrice(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	total, err := h.items.SumPrice(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}
