package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/invoicedesk/internal/config"
	"github.com/smallbiznis/invoicedesk/internal/customer/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/smallbiznis/invoicedesk/internal/validation"
	"github.com/smallbiznis/invoicedesk/pkg/db"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const knownID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Insert(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Customer)
	return c, args.Error(1)
}

func (m *mockRepo) ListOptions(ctx context.Context) ([]domain.Option, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Option)
	return out, args.Error(1)
}

func (m *mockRepo) ListSummaries(ctx context.Context, filter search.Filter, page pagination.Page) ([]domain.Summary, error) {
	args := m.Called(ctx, filter, page)
	out, _ := args.Get(0).([]domain.Summary)
	return out, args.Error(1)
}

func (m *mockRepo) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newService(repo domain.Repository, pageSize int) *Service {
	return New(Params{
		Log:     zap.NewNop(),
		Repo:    repo,
		Listing: config.NewStaticListingConfigHolder(config.ListingConfig{PageSize: pageSize, LatestLimit: 5}),
	}).(*Service)
}

func TestCreateRoundTrip(t *testing.T) {
	svc := newService(memstore.New().Customers(), 6)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CustomerInput{
		Name:     "  Delba de Oliveira ",
		Email:    "delba@oliveira.com",
		ImageURL: "/customers/delba-de-oliveira.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Delba de Oliveira", created.Name)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateValidation(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, 6)

	_, err := svc.Create(context.Background(), domain.CustomerInput{Email: "not-an-email"})
	vErr, ok := validation.As(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "Missing fields. Failed to create customer.", vErr.Message)
	assert.Equal(t, []string{"Please enter a customer name."}, vErr.Fields["name"])
	assert.Equal(t, []string{"Please enter a valid email address."}, vErr.Fields["email"])
	assert.Equal(t, []string{"Please provide an image URL."}, vErr.Fields["image_url"])
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)
	svc := newService(repo, 6)

	_, err := svc.Create(context.Background(), domain.CustomerInput{Name: "A", Email: "a@b.co", ImageURL: "/a.png"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestStoreFailureIsWrapped(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FindByID", mock.Anything, knownID).Return(nil, db.ErrUnavailable)
	svc := newService(repo, 6)

	_, err := svc.GetByID(context.Background(), knownID)
	assert.ErrorIs(t, err, db.ErrUnavailable)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, 6)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Update(ctx, "42", domain.CustomerInput{Name: "A", Email: "a@b.co", ImageURL: "/a.png"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "42"), domain.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestGetMissing(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FindByID", mock.Anything, knownID).Return(nil, nil)
	svc := newService(repo, 6)

	_, err := svc.GetByID(context.Background(), knownID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePropagatesRestriction(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Delete", mock.Anything, knownID).Return(domain.ErrHasInvoices)
	svc := newService(repo, 6)

	assert.ErrorIs(t, svc.Delete(context.Background(), knownID), domain.ErrHasInvoices)
}

func TestListPaging(t *testing.T) {
	repo := &mockRepo{}
	filter := search.Build("amy")
	repo.On("CountFiltered", mock.Anything, filter).Return(int64(7), nil)
	repo.On("ListSummaries", mock.Anything, filter, pagination.Page{Number: 2, Offset: 3, Limit: 3}).
		Return([]domain.Summary{{ID: knownID, Name: "Amy Burns", TotalInvoices: 3, TotalPending: 123456, TotalPaid: 5}}, nil)
	svc := newService(repo, 3)

	resp, err := svc.List(context.Background(), domain.ListRequest{Query: " amy ", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, pagination.PageInfo{Page: 2, PageSize: 3, TotalPages: 3, TotalCount: 7}, resp.PageInfo)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, domain.View{
		ID:            knownID,
		Name:          "Amy Burns",
		TotalInvoices: 3,
		TotalPending:  "$1,234.56",
		TotalPaid:     "$0.05",
	}, resp.Customers[0])
	repo.AssertExpectations(t)
}

func TestListEmpty(t *testing.T) {
	repo := &mockRepo{}
	repo.On("CountFiltered", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("ListSummaries", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	svc := newService(repo, 6)

	resp, err := svc.List(context.Background(), domain.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalPages)
	assert.NotNil(t, resp.Customers)
}

func TestListCountFailure(t *testing.T) {
	repo := &mockRepo{}
	boom := errors.New("boom")
	repo.On("CountFiltered", mock.Anything, mock.Anything).Return(int64(0), boom)
	svc := newService(repo, 6)

	_, err := svc.List(context.Background(), domain.ListRequest{})
	assert.ErrorIs(t, err, boom)
}
