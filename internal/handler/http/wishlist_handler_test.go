package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/bookmarket/internal/book"
	"github.com/shelfline/bookmarket/internal/money"
	"github.com/shelfline/bookmarket/internal/wishlist"
)

func TestAddToWishlist(t *testing.T) {
	env := newTestEnv(t)
	buyer := buyerIdentity()
	env.grantToken("buyer-token", buyer)

	bookID := uuid.Must(uuid.NewV4())
	entry := &wishlist.Entry{UserID: buyer.UserID, BookID: bookID, PriceWhenAdded: money.Cents(1599), NotifyOnPriceDrop: true}
	env.wishlistSvc.On("Add", mock.Anything, buyer.UserID, bookID, true).Return(entry, nil).Once()

	rec := doRequest(env, http.MethodPost, "/api/v1/wishlist", "buyer-token", map[string]any{
		"bookId":            bookID,
		"notifyOnPriceDrop": true,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	env.wishlistSvc.AssertExpectations(t)
}

func TestAddToWishlist_Errors(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{name: "unknown book", svcErr: book.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "duplicate", svcErr: wishlist.ErrAlreadyInWishlist, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			buyer := buyerIdentity()
			env.grantToken("buyer-token", buyer)

			bookID := uuid.Must(uuid.NewV4())
			env.wishlistSvc.On("Add", mock.Anything, buyer.UserID, bookID, false).Return(nil, tt.svcErr).Once()

			rec := doRequest(env, http.MethodPost, "/api/v1/wishlist", "buyer-token", map[string]any{
				"bookId": bookID,
			})

			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCheckWishlist(t *testing.T) {
	env := newTestEnv(t)
	buyer := buyerIdentity()
	env.grantToken("buyer-token", buyer)

	bookID := uuid.Must(uuid.NewV4())
	env.wishlistSvc.On("Contains", mock.Anything, buyer.UserID, bookID).Return(true, nil).Once()

	rec := doRequest(env, http.MethodGet, "/api/v1/wishlist/check/"+bookID.String(), "buyer-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got["inWishlist"])
}

func TestRemoveFromWishlist_NotThere(t *testing.T) {
	env := newTestEnv(t)
	buyer := buyerIdentity()
	env.grantToken("buyer-token", buyer)

	bookID := uuid.Must(uuid.NewV4())
	env.wishlistSvc.On("Remove", mock.Anything, buyer.UserID, bookID).Return(wishlist.ErrNotInWishlist).Once()

	rec := doRequest(env, http.MethodDelete, "/api/v1/wishlist/"+bookID.String(), "buyer-token", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSharedWishlist_Public(t *testing.T) {
	env := newTestEnv(t)

	view := &wishlist.SharedView{
		Share: wishlist.Share{ShareCode: "c0ffee", Title: "Summer reading", IsPublic: true, OwnerName: "Alice"},
		Items: []wishlist.Entry{{BookID: uuid.Must(uuid.NewV4())}},
	}
	env.wishlistSvc.On("GetShared", mock.Anything, "c0ffee").Return(view, nil).Once()

	// No token needed, shares are reachable by anyone holding the code.
	rec := doRequest(env, http.MethodGet, "/api/v1/wishlist/shared/c0ffee", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Summer reading")
}

func TestSharedWishlist_Errors(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{name: "private", svcErr: wishlist.ErrSharePrivate, wantCode: http.StatusForbidden},
		{name: "unknown or expired", svcErr: wishlist.ErrShareNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.wishlistSvc.On("GetShared", mock.Anything, "c0ffee").Return(nil, tt.svcErr).Once()

			rec := doRequest(env, http.MethodGet, "/api/v1/wishlist/shared/c0ffee", "", nil)

			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreateShare(t *testing.T) {
	env := newTestEnv(t)
	buyer := buyerIdentity()
	env.grantToken("buyer-token", buyer)

	input := wishlist.ShareInput{Title: "Gift ideas", IsPublic: true, ExpiresInDays: 14}
	share := &wishlist.Share{UserID: buyer.UserID, ShareCode: "c0ffee", Title: "Gift ideas", IsPublic: true}
	env.wishlistSvc.On("CreateShare", mock.Anything, buyer.UserID, input).Return(share, nil).Once()

	rec := doRequest(env, http.MethodPost, "/api/v1/wishlist/share", "buyer-token", map[string]any{
		"title":         "Gift ideas",
		"expiresInDays": 14,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "c0ffee")
	env.wishlistSvc.AssertExpectations(t)
}

func TestSetNotify(t *testing.T) {
	env := newTestEnv(t)
	buyer := buyerIdentity()
	env.grantToken("buyer-token", buyer)

	bookID := uuid.Must(uuid.NewV4())
	entry := &wishlist.Entry{UserID: buyer.UserID, BookID: bookID, NotifyOnPriceDrop: false}
	env.wishlistSvc.On("SetNotify", mock.Anything, buyer.UserID, bookID, false).Return(entry, nil).Once()

	rec := doRequest(env, http.MethodPatch, "/api/v1/wishlist/"+bookID.String()+"/notify", "buyer-token", map[string]any{
		"notifyOnPriceDrop": false,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	env.wishlistSvc.AssertExpectations(t)
}

func TestWishlistRequiresBuyerRole(t *testing.T) {
	env := newTestEnv(t)
	env.grantToken("seller-token", sellerIdentity())

	rec := doRequest(env, http.MethodGet, "/api/v1/wishlist", "seller-token", nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env.wishlistSvc.AssertNotCalled(t, "List")
}
