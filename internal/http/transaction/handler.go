package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/order", h.reorder)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var startingBalance int64

	if s := r.URL.Query().Get("starting_balance"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "starting_balance must be an integer amount in cents", http.StatusBadRequest)
			return
		}

		startingBalance = v
	}

	lines, err := h.svc.Ledger(r.Context(), startingBalance)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toLedgerResponse(lines, startingBalance)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Reorder(r.Context(), req.IDs); err != nil {
		if errors.Is(err, transaction.ErrPartialReorder) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	Date         *time.Time `json:"date,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Description2 *string    `json:"description2,omitempty"`
	Expense      *int64     `json:"expense,omitempty"`
	Income       *int64     `json:"income,omitempty"`
	Status       *string    `json:"status,omitempty"`
	ProjectCode  *string    `json:"project_code,omitempty"`
	Category     *string    `json:"category,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := transaction.Patch{
		Date:         req.Date,
		Description:  req.Description,
		Description2: req.Description2,
		Expense:      req.Expense,
		Income:       req.Income,
		ProjectCode:  req.ProjectCode,
		Category:     req.Category,
	}

	if req.Status != nil {
		status, known := transaction.ParseStatus(*req.Status)
		if !known {
			http.Error(w, "unknown status: "+*req.Status, http.StatusBadRequest)
			return
		}

		patch.Status = &status
	}

	if patch.Empty() {
		http.Error(w, "empty update", http.StatusBadRequest)
		return
	}

	if err := h.svc.Update(r.Context(), id, patch); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
