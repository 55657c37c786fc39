package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/wishlist"
)

type AddWishlistRequest struct {
	BookID            uuid.UUID `json:"bookId" validate:"required"`
	NotifyOnPriceDrop bool      `json:"notifyOnPriceDrop"`
}

type SetNotifyRequest struct {
	NotifyOnPriceDrop *bool `json:"notifyOnPriceDrop" validate:"required"`
}

type CreateShareRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	IsPublic      *bool  `json:"isPublic,omitempty"`
	ExpiresInDays int    `json:"expiresInDays,omitempty" validate:"omitempty,gt=0,lte=365"`
}

type WishlistHandler struct {
	service  wishlist.Service
	validate *validator.Validate
}

func NewWishlistHandler(service wishlist.Service) *WishlistHandler {
	return &WishlistHandler{service: service, validate: validator.New()}
}

func (h *WishlistHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/wishlist/shared/{shareCode}", h.handleGetShared)
}

func (h *WishlistHandler) RegisterBuyerRoutes(r chi.Router) {
	r.Get("/wishlist", h.handleList)
	r.Post("/wishlist", h.handleAdd)
	r.Get("/wishlist/check/{bookId}", h.handleCheck)
	r.Delete("/wishlist/{bookId}", h.handleRemove)
	r.Patch("/wishlist/{bookId}/notify", h.handleSetNotify)
	r.Post("/wishlist/share", h.handleCreateShare)
	r.Get("/wishlist/shares", h.handleListShares)
	r.Delete("/wishlist/shares/{shareCode}", h.handleDeleteShare)
}

func (h *WishlistHandler) handleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, err := h.service.List(r.Context(), caller.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list wishlist")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to list wishlist"))
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *WishlistHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req AddWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	entry, err := h.service.Add(r.Context(), caller.UserID, req.BookID, req.NotifyOnPriceDrop)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to add to wishlist"))
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *WishlistHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	bookID, err := uuid.FromString(chi.URLParam(r, "bookId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	if err := h.service.Remove(r.Context(), caller.UserID, bookID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to remove from wishlist"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	bookID, err := uuid.FromString(chi.URLParam(r, "bookId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	found, err := h.service.Contains(r.Context(), caller.UserID, bookID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check wishlist")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to check wishlist"))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"inWishlist": found})
}

func (h *WishlistHandler) handleSetNotify(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	bookID, err := uuid.FromString(chi.URLParam(r, "bookId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req SetNotifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	entry, err := h.service.SetNotify(r.Context(), caller.UserID, bookID, *req.NotifyOnPriceDrop)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to update notification setting"))
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (h *WishlistHandler) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateShareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	// Shares are public unless explicitly made private.
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	share, err := h.service.CreateShare(r.Context(), caller.UserID, wishlist.ShareInput{
		Title:         req.Title,
		Description:   req.Description,
		IsPublic:      isPublic,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create wishlist share")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to create wishlist share"))
		return
	}

	respondWithJSON(w, http.StatusCreated, share)
}

func (h *WishlistHandler) handleGetShared(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shareCode")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "share code is required")
		return
	}

	view, err := h.service.GetShared(r.Context(), code)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to fetch shared wishlist"))
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

func (h *WishlistHandler) handleListShares(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	shares, err := h.service.ListShares(r.Context(), caller.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list wishlist shares")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to list wishlist shares"))
		return
	}

	respondWithJSON(w, http.StatusOK, shares)
}

func (h *WishlistHandler) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	code := chi.URLParam(r, "shareCode")
	if err := h.service.DeleteShare(r.Context(), caller.UserID, code); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to delete wishlist share"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
