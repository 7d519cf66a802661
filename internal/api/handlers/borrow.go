package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mx-styles/library-management-system/internal/api/httpx"
	"github.com/mx-styles/library-management-system/internal/middleware"
	"github.com/mx-styles/library-management-system/internal/models"
	"github.com/mx-styles/library-management-system/internal/services"
)

type BorrowHandler struct {
	lending *services.LendingService
}

func NewBorrowHandler(lending *services.LendingService) *BorrowHandler {
	return &BorrowHandler{lending: lending}
}

func (h *BorrowHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.FromCtx(r.Context())
	rec, err := h.lending.Borrow(r.Context(), u.UserID, chi.URLParam(r, "book_id"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.FromCtx(r.Context())
	rec, err := h.lending.Return(r.Context(), u.UserID, chi.URLParam(r, "borrow_id"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

// Borrowed lists the caller's records, open borrows first.
func (h *BorrowHandler) Borrowed(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.FromCtx(r.Context())
	records, err := h.lending.ListForUser(r.Context(), u.UserID)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if records == nil {
		records = []models.BorrowRecordDetail{}
	}
	httpx.WriteJSON(w, http.StatusOK, records)
}
