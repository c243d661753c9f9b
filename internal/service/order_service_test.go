package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/session"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, deliveryNote *string) (*models.Order, error) {
	args := m.Called(ctx, id, from, to, deliveryNote)
	if v := args.Get(0); v != nil {
		return v.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockListingGetter struct {
	mock.Mock
}

func (m *mockListingGetter) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) Create(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Report), args.Error(1)
}

func asUser(id uuid.UUID, role string) context.Context {
	return session.WithSession(context.Background(), session.Session{UserID: id, Role: role})
}

func TestCommission(t *testing.T) {
	assert.Equal(t, 5.0, Commission(100, 0.05))
	assert.Equal(t, 1.0, Commission(10.01, 0.1))
	assert.Equal(t, 0.0, Commission(0, 0.05))
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	buyer, seller := uuid.New(), uuid.New()
	listing := &models.Listing{ID: uuid.New(), SellerID: seller, Price: 250, Status: models.ListingStatusActive}

	orders := new(mockOrderRepository)
	listings := new(mockListingGetter)
	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	svc := NewOrderService(orders, listings, new(mockReportRepository), DefaultCommissionRate)
	order, err := svc.Create(ctx, buyer, listing.ID)
	require.NoError(t, err)

	assert.Equal(t, seller, order.SellerID)
	assert.Equal(t, 250.0, order.Price)
	assert.Equal(t, 12.5, order.Commission)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_CreateRejectsOwnAndInactiveListing(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	own := &models.Listing{ID: uuid.New(), SellerID: seller, Status: models.ListingStatusActive}
	sold := &models.Listing{ID: uuid.New(), SellerID: uuid.New(), Status: models.ListingStatusSold}

	listings := new(mockListingGetter)
	listings.On("GetByID", ctx, own.ID).Return(own, nil)
	listings.On("GetByID", ctx, sold.ID).Return(sold, nil)
	missing := uuid.New()
	listings.On("GetByID", ctx, missing).Return(nil, repository.ErrListingNotFound)

	svc := NewOrderService(new(mockOrderRepository), listings, new(mockReportRepository), DefaultCommissionRate)

	_, err := svc.Create(ctx, seller, own.ID)
	assert.ErrorIs(t, err, apperror.ErrOwnListing)

	_, err = svc.Create(ctx, seller, sold.ID)
	assert.ErrorIs(t, err, apperror.ErrListingInactive)

	_, err = svc.Create(ctx, seller, missing)
	assert.ErrorIs(t, err, apperror.ErrListingNotFound)
}

func TestOrderService_ChangeStatusRoles(t *testing.T) {
	buyer, seller, stranger := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name    string
		actor   uuid.UUID
		role    string
		from    string
		to      string
		wantErr error
	}{
		{name: "покупатель оплачивает", actor: buyer, role: models.RoleUser, from: models.OrderStatusPending, to: models.OrderStatusPaid},
		{name: "продавец не оплачивает", actor: seller, role: models.RoleUser, from: models.OrderStatusPending, to: models.OrderStatusPaid, wantErr: apperror.ErrForbidden},
		{name: "продавец доставляет", actor: seller, role: models.RoleUser, from: models.OrderStatusPaid, to: models.OrderStatusDelivered},
		{name: "покупатель не доставляет", actor: buyer, role: models.RoleUser, from: models.OrderStatusPaid, to: models.OrderStatusDelivered, wantErr: apperror.ErrForbidden},
		{name: "посторонний не отменяет", actor: stranger, role: models.RoleUser, from: models.OrderStatusPending, to: models.OrderStatusCancelled, wantErr: apperror.ErrForbidden},
		{name: "администратор завершает", actor: stranger, role: models.RoleAdmin, from: models.OrderStatusDelivered, to: models.OrderStatusCompleted},
		{name: "недопустимый переход", actor: buyer, role: models.RoleUser, from: models.OrderStatusCompleted, to: models.OrderStatusPaid, wantErr: apperror.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := asUser(tt.actor, tt.role)
			order := &models.Order{ID: uuid.New(), BuyerID: buyer, SellerID: seller, Status: tt.from}

			orders := new(mockOrderRepository)
			orders.On("GetByID", ctx, order.ID).Return(order, nil)
			orders.On("UpdateStatus", ctx, order.ID, tt.from, tt.to, mock.Anything).
				Return(&models.Order{ID: order.ID, Status: tt.to}, nil)

			svc := NewOrderService(orders, new(mockListingGetter), new(mockReportRepository), DefaultCommissionRate)
			got, err := svc.ChangeStatus(ctx, order.ID, tt.to, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
		})
	}
}

func TestOrderService_ChangeStatusStaleStep(t *testing.T) {
	buyer := uuid.New()
	ctx := asUser(buyer, models.RoleUser)
	order := &models.Order{ID: uuid.New(), BuyerID: buyer, SellerID: uuid.New(), Status: models.OrderStatusPending}

	orders := new(mockOrderRepository)
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	orders.On("UpdateStatus", ctx, order.ID, order.Status, models.OrderStatusPaid, mock.Anything).
		Return(nil, repository.ErrStaleOrderStep)

	svc := NewOrderService(orders, new(mockListingGetter), new(mockReportRepository), DefaultCommissionRate)
	_, err := svc.ChangeStatus(ctx, order.ID, models.OrderStatusPaid, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestOrderService_ChangeStatusRequiresSession(t *testing.T) {
	svc := NewOrderService(new(mockOrderRepository), new(mockListingGetter), new(mockReportRepository), DefaultCommissionRate)
	_, err := svc.ChangeStatus(context.Background(), uuid.New(), models.OrderStatusPaid, nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestOrderService_OpenReportDisputesOrder(t *testing.T) {
	buyer := uuid.New()
	ctx := asUser(buyer, models.RoleUser)
	order := &models.Order{ID: uuid.New(), BuyerID: buyer, SellerID: uuid.New(), Status: models.OrderStatusDelivered}

	orders := new(mockOrderRepository)
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	orders.On("UpdateStatus", ctx, order.ID, models.OrderStatusDelivered, models.OrderStatusDisputed, (*string)(nil)).
		Return(&models.Order{ID: order.ID, Status: models.OrderStatusDisputed}, nil)
	reports := new(mockReportRepository)
	reports.On("Create", ctx, mock.AnythingOfType("*models.Report")).Return(nil)

	svc := NewOrderService(orders, new(mockListingGetter), reports, DefaultCommissionRate)
	report, err := svc.OpenReport(ctx, order.ID, "  товар не пришёл  ", nil)
	require.NoError(t, err)

	assert.Equal(t, "товар не пришёл", report.Reason)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	orders.AssertExpectations(t)
	reports.AssertExpectations(t)
}

func TestOrderService_OpenReportOnlyBuyer(t *testing.T) {
	seller := uuid.New()
	ctx := asUser(seller, models.RoleUser)
	order := &models.Order{ID: uuid.New(), BuyerID: uuid.New(), SellerID: seller, Status: models.OrderStatusPaid}

	orders := new(mockOrderRepository)
	orders.On("GetByID", ctx, order.ID).Return(order, nil)

	svc := NewOrderService(orders, new(mockListingGetter), new(mockReportRepository), DefaultCommissionRate)
	_, err := svc.OpenReport(ctx, order.ID, "обман", nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOrderService_GetVisibility(t *testing.T) {
	buyer := uuid.New()
	order := &models.Order{ID: uuid.New(), BuyerID: buyer, SellerID: uuid.New(), Status: models.OrderStatusPaid}

	orders := new(mockOrderRepository)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	svc := NewOrderService(orders, new(mockListingGetter), new(mockReportRepository), DefaultCommissionRate)

	_, err := svc.Get(asUser(buyer, models.RoleUser), order.ID)
	require.NoError(t, err)

	_, err = svc.Get(asUser(uuid.New(), models.RoleUser), order.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Get(asUser(uuid.New(), models.RoleAdmin), order.ID)
	require.NoError(t, err)
}
