package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shelfline/bookmarket/internal/auth"
	"github.com/shelfline/bookmarket/internal/book"
	handler "github.com/shelfline/bookmarket/internal/handler/http"
	"github.com/shelfline/bookmarket/internal/order"
	"github.com/shelfline/bookmarket/internal/user"
	"github.com/shelfline/bookmarket/internal/wishlist"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string, role user.Role) (*user.User, string, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*user.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*user.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Identify(ctx context.Context, token string) (auth.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, buyerID uuid.UUID, lines []order.CartLine) (*order.Checkout, error) {
	args := m.Called(ctx, buyerID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Checkout), args.Error(1)
}

func (m *MockOrderService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID, sellerID uuid.UUID, newStatus order.Status) (*order.Order, error) {
	args := m.Called(ctx, orderID, sellerID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Create(ctx context.Context, sellerID uuid.UUID, sellerName string, input book.CreateInput) (*book.Book, error) {
	args := m.Called(ctx, sellerID, sellerName, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *MockBookService) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *MockBookService) List(ctx context.Context) ([]book.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]book.Book), args.Error(1)
}

func (m *MockBookService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]book.Book, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]book.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id, sellerID uuid.UUID, input book.UpdateInput) (*book.Book, error) {
	args := m.Called(ctx, id, sellerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	args := m.Called(ctx, id, sellerID)
	return args.Error(0)
}

type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) List(ctx context.Context, userID uuid.UUID) ([]wishlist.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wishlist.Entry), args.Error(1)
}

func (m *MockWishlistService) Add(ctx context.Context, userID, bookID uuid.UUID, notifyOnPriceDrop bool) (*wishlist.Entry, error) {
	args := m.Called(ctx, userID, bookID, notifyOnPriceDrop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.Entry), args.Error(1)
}

func (m *MockWishlistService) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockWishlistService) Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistService) SetNotify(ctx context.Context, userID, bookID uuid.UUID, notify bool) (*wishlist.Entry, error) {
	args := m.Called(ctx, userID, bookID, notify)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.Entry), args.Error(1)
}

func (m *MockWishlistService) CreateShare(ctx context.Context, userID uuid.UUID, input wishlist.ShareInput) (*wishlist.Share, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.Share), args.Error(1)
}

func (m *MockWishlistService) GetShared(ctx context.Context, code string) (*wishlist.SharedView, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.SharedView), args.Error(1)
}

func (m *MockWishlistService) ListShares(ctx context.Context, userID uuid.UUID) ([]wishlist.Share, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wishlist.Share), args.Error(1)
}

func (m *MockWishlistService) DeleteShare(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

// testEnv is one router instance backed entirely by mocks. Tokens are resolved
// by the mock auth service, so the real middleware chain runs in every test.
type testEnv struct {
	authSvc     *MockAuthService
	bookSvc     *MockBookService
	orderSvc    *MockOrderService
	wishlistSvc *MockWishlistService
	router      http.Handler
}

func newTestEnv(_ *testing.T) *testEnv {
	env := &testEnv{
		authSvc:     new(MockAuthService),
		bookSvc:     new(MockBookService),
		orderSvc:    new(MockOrderService),
		wishlistSvc: new(MockWishlistService),
	}
	env.router = handler.NewRouter(env.authSvc, handler.Handlers{
		Auth:     handler.NewAuthHandler(env.authSvc),
		Book:     handler.NewBookHandler(env.bookSvc),
		Order:    handler.NewOrderHandler(env.orderSvc),
		Wishlist: handler.NewWishlistHandler(env.wishlistSvc),
	})
	return env
}

// grantToken makes the mock auth service accept the given token for id.
func (env *testEnv) grantToken(token string, id auth.Identity) {
	env.authSvc.On("Identify", mock.Anything, token).Return(id, nil)
}

func buyerIdentity() auth.Identity {
	return auth.Identity{UserID: uuid.Must(uuid.NewV4()), Name: "Buyer", Role: user.RoleBuyer}
}

func sellerIdentity() auth.Identity {
	return auth.Identity{UserID: uuid.Must(uuid.NewV4()), Name: "Seller", Role: user.RoleSeller}
}
