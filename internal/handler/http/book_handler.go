package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/book"
	"github.com/shelfline/bookmarket/internal/money"
)

type CreateBookRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price" validate:"required,gt=0"`
	Stock       *int        `json:"stock" validate:"required,gte=0"`
	ImageURL    string      `json:"imageUrl"`
}

type UpdateBookRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string      `json:"description,omitempty"`
	Price       *money.Cents `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int         `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string      `json:"imageUrl,omitempty"`
}

type BookHandler struct {
	service  book.Service
	validate *validator.Validate
}

func NewBookHandler(service book.Service) *BookHandler {
	return &BookHandler{service: service, validate: validator.New()}
}

func (h *BookHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/books", h.handleList)
	r.Get("/books/{id}", h.handleGetByID)
	r.Get("/books/seller/{sellerId}", h.handleListBySeller)
}

func (h *BookHandler) RegisterSellerRoutes(r chi.Router) {
	r.Post("/books", h.handleCreate)
	r.Put("/books/{id}", h.handleUpdate)
	r.Delete("/books/{id}", h.handleDelete)
}

func (h *BookHandler) handleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list books")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to list books"))
		return
	}

	respondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to fetch book"))
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

func (h *BookHandler) handleListBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, err := uuid.FromString(chi.URLParam(r, "sellerId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid seller id")
		return
	}

	books, err := h.service.ListBySeller(r.Context(), sellerID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list seller books")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to list seller books"))
		return
	}

	respondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	b, err := h.service.Create(r.Context(), caller.UserID, caller.Name, book.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       *req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create book")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to create book"))
		return
	}

	respondWithJSON(w, http.StatusCreated, b)
}

func (h *BookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req UpdateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	b, err := h.service.Update(r.Context(), id, caller.UserID, book.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to update book"))
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

func (h *BookHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	if err := h.service.Delete(r.Context(), id, caller.UserID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to delete book"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
