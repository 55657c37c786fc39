package book_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/bookmarket/internal/book"
	"github.com/shelfline/bookmarket/internal/money"
)

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, b *book.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context) ([]book.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]book.Book), args.Error(1)
}

func (m *MockBookRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]book.Book, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]book.Book), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, b *book.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreate_Success(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := book.NewService(mockRepo)
	sellerID := uuid.Must(uuid.NewV4())

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*book.Book")).Return(nil).Once()

	b, err := svc.Create(context.Background(), sellerID, "Seller", book.CreateInput{
		Title: "Go in Action",
		Price: money.Cents(1599),
		Stock: 10,
	})

	require.NoError(t, err)
	require.Equal(t, sellerID, b.SellerID)
	require.Equal(t, "Seller", b.SellerName)
	mockRepo.AssertExpectations(t)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := book.NewService(mockRepo)
	sellerID := uuid.Must(uuid.NewV4())

	_, err := svc.Create(context.Background(), sellerID, "Seller", book.CreateInput{Title: "Free", Price: 0, Stock: 1})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), sellerID, "Seller", book.CreateInput{Title: "Negative", Price: 100, Stock: -1})
	require.Error(t, err)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestUpdate_AppliesPartialInput(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := book.NewService(mockRepo)

	sellerID := uuid.Must(uuid.NewV4())
	bookID := uuid.Must(uuid.NewV4())
	existing := &book.Book{ID: bookID, Title: "Old Title", Price: money.Cents(1000), Stock: 5, SellerID: sellerID}

	mockRepo.On("GetByID", mock.Anything, bookID).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*book.Book")).Return(nil).Once()

	newPrice := money.Cents(899)
	updated, err := svc.Update(context.Background(), bookID, sellerID, book.UpdateInput{Price: &newPrice})

	require.NoError(t, err)
	require.Equal(t, money.Cents(899), updated.Price)
	require.Equal(t, "Old Title", updated.Title)
	require.Equal(t, 5, updated.Stock)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_NotOwner(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := book.NewService(mockRepo)

	bookID := uuid.Must(uuid.NewV4())
	owner := uuid.Must(uuid.NewV4())
	intruder := uuid.Must(uuid.NewV4())
	existing := &book.Book{ID: bookID, SellerID: owner, Price: money.Cents(1000)}

	mockRepo.On("GetByID", mock.Anything, bookID).Return(existing, nil).Once()

	title := "Hijacked"
	_, err := svc.Update(context.Background(), bookID, intruder, book.UpdateInput{Title: &title})

	require.ErrorIs(t, err, book.ErrNotOwner)
	mockRepo.AssertNotCalled(t, "Update")
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := book.NewService(mockRepo)
	bookID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetByID", mock.Anything, bookID).Return(nil, book.ErrNotFound).Once()

	err := svc.Delete(context.Background(), bookID, uuid.Must(uuid.NewV4()))

	require.ErrorIs(t, err, book.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestDelete_Owner(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := book.NewService(mockRepo)

	sellerID := uuid.Must(uuid.NewV4())
	bookID := uuid.Must(uuid.NewV4())
	existing := &book.Book{ID: bookID, SellerID: sellerID, Price: money.Cents(1000)}

	mockRepo.On("GetByID", mock.Anything, bookID).Return(existing, nil).Once()
	mockRepo.On("Delete", mock.Anything, bookID).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), bookID, sellerID))
	mockRepo.AssertExpectations(t)
}
