package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mx-styles/library-management-system/internal/api/httpx"
	"github.com/mx-styles/library-management-system/internal/api/validate"
	"github.com/mx-styles/library-management-system/internal/models"
	"github.com/mx-styles/library-management-system/internal/services"
)

type AdminHandler struct {
	catalog *services.CatalogService
	users   *services.UserService
	lending *services.LendingService
}

func NewAdminHandler(catalog *services.CatalogService, users *services.UserService, lending *services.LendingService) *AdminHandler {
	return &AdminHandler{catalog: catalog, users: users, lending: lending}
}

type bookReq struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	AvailableCopies int    `json:"available_copies"`
	TotalCopies     int    `json:"total_copies"`
}

func (req *bookReq) validate() error {
	return validate.Collect(
		validate.Required("title", req.Title),
		validate.Required("author", req.Author),
		validate.MinInt("total_copies", int64(req.TotalCopies), 1),
		validate.MinInt("available_copies", int64(req.AvailableCopies), 0),
	)
}

func (h *AdminHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.Search(r.Context(), "")
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	httpx.WriteJSON(w, http.StatusOK, books)
}

func (h *AdminHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "validation failed", err)
		return
	}
	book, err := h.catalog.Create(r.Context(), models.Book{
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		AvailableCopies: req.AvailableCopies,
		TotalCopies:     req.TotalCopies,
	})
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, book)
}

func (h *AdminHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", "validation failed", err)
		return
	}
	book, err := h.catalog.Update(r.Context(), models.Book{
		ID:              chi.URLParam(r, "id"),
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		AvailableCopies: req.AvailableCopies,
		TotalCopies:     req.TotalCopies,
	})
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, book)
}

func (h *AdminHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.ToggleAdmin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// CreateAdmin is the bootstrap path for the first admin account; it is
// deliberately reachable without authentication and guarded only by
// username/email uniqueness.
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	u, err := h.users.BootstrapAdmin(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *AdminHandler) ListBorrows(w http.ResponseWriter, r *http.Request) {
	records, err := h.lending.ListAll(r.Context())
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if records == nil {
		records = []models.BorrowRecordDetail{}
	}
	httpx.WriteJSON(w, http.StatusOK, records)
}
