package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mx-styles/library-management-system/internal/api/httpx"
	"github.com/mx-styles/library-management-system/internal/models"
	"github.com/mx-styles/library-management-system/internal/services"
)

type BooksHandler struct {
	catalog *services.CatalogService
}

func NewBooksHandler(catalog *services.CatalogService) *BooksHandler {
	return &BooksHandler{catalog: catalog}
}

// List serves the catalog, filtered by the q parameter when present.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	httpx.WriteJSON(w, http.StatusOK, books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, book)
}
