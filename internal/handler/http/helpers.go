package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/auth"
	"github.com/shelfline/bookmarket/internal/book"
	"github.com/shelfline/bookmarket/internal/order"
	"github.com/shelfline/bookmarket/internal/user"
	"github.com/shelfline/bookmarket/internal/wishlist"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// decodeJSON decodes a strictly validated request body: unknown fields are
// rejected at the boundary.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
	return details
}

// respondWithValidationError renders validator output, or a 500 when the
// error is not a field validation error at all.
func respondWithValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "validation failed",
			Details: formatValidationErrors(validationErrors),
		})
		return
	}
	log.Error().Err(err).Msg("Unexpected error type during validation")
	respondWithError(w, http.StatusInternalServerError, "internal validation error")
}

func mapErrorToStatusCode(err error) int {
	var bookNotFound *order.BookNotFoundError
	var shortStock *order.InsufficientStockError

	switch {
	case errors.As(err, &bookNotFound),
		errors.Is(err, book.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, wishlist.ErrNotInWishlist),
		errors.Is(err, wishlist.ErrShareNotFound):
		return http.StatusNotFound
	case errors.As(err, &shortStock),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidLine),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, book.ErrNotOwner),
		errors.Is(err, order.ErrNotOrderOwner),
		errors.Is(err, wishlist.ErrSharePrivate):
		return http.StatusForbidden
	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, wishlist.ErrAlreadyInWishlist):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the text shown to the caller. Business failures keep
// their own wording; anything unexpected collapses to a generic message.
func clientMessage(err error, fallback string) string {
	if mapErrorToStatusCode(err) != http.StatusInternalServerError {
		return err.Error()
	}
	return fallback
}

// identity pulls the verified caller set by the auth middleware; the routing
// guarantees it is present on protected routes.
func identity(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}
