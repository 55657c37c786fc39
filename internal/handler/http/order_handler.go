package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/order"
)

type CheckoutItem struct {
	BookID   uuid.UUID `json:"bookId" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Items []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{service: service, validate: validator.New()}
}

func (h *OrderHandler) RegisterBuyerRoutes(r chi.Router) {
	r.Post("/orders", h.handleCheckout)
	r.Get("/orders/buyer", h.handleListByBuyer)
}

func (h *OrderHandler) RegisterSellerRoutes(r chi.Router) {
	r.Get("/orders/seller", h.handleListBySeller)
	r.Patch("/orders/{id}/status", h.handleUpdateStatus)
}

func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	lines := make([]order.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, order.CartLine{BookID: item.BookID, Quantity: item.Quantity})
	}

	checkout, err := h.service.PlaceOrder(r.Context(), caller.UserID, lines)
	if err != nil {
		log.Warn().Err(err).Stringer("buyer_id", caller.UserID).Msg("Checkout failed")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to place order"))
		return
	}

	respondWithJSON(w, http.StatusCreated, checkout)
}

func (h *OrderHandler) handleListByBuyer(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.service.ListByBuyer(r.Context(), caller.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list buyer orders")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to list orders"))
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListBySeller(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.service.ListBySeller(r.Context(), caller.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list seller orders")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to list orders"))
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), orderID, caller.UserID, order.Status(req.Status))
	if err != nil {
		log.Warn().Err(err).Stringer("order_id", orderID).Msg("Failed to update order status")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "failed to update order status"))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}
