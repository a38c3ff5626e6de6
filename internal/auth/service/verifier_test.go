package service

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/smallbiznis/invoicedesk/internal/auth/domain"
	"github.com/smallbiznis/invoicedesk/internal/auth/password"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/smallbiznis/invoicedesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockRepo) Insert(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func newVerifier(repo domain.Repository) domain.Verifier {
	return New(Params{Log: zap.NewNop(), Repo: repo})
}

func seededUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := password.HashBcrypt("123456")
	require.NoError(t, err)
	return &domain.User{
		ID:           "410544b2-4001-4271-9855-fec4b6a6442a",
		Name:         "User",
		Email:        "user@nextmail.com",
		PasswordHash: hash,
	}
}

func TestVerifyAcceptsNormalizedEmail(t *testing.T) {
	user := seededUser(t)
	repo := &mockRepo{}
	repo.On("FindByEmail", mock.Anything, "user@nextmail.com").Return(user, nil)

	got, err := newVerifier(repo).Verify(context.Background(), domain.Credentials{
		Email:    "  User@NextMail.com ",
		Password: "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestVerifyArgon2Hash(t *testing.T) {
	hash, err := password.Hash("correct horse")
	require.NoError(t, err)
	repo := &mockRepo{}
	repo.On("FindByEmail", mock.Anything, "a@b.co").Return(&domain.User{ID: "1", Email: "a@b.co", PasswordHash: hash}, nil)

	_, err = newVerifier(repo).Verify(context.Background(), domain.Credentials{Email: "a@b.co", Password: "correct horse"})
	require.NoError(t, err)
}

func TestVerifyIndistinguishableFailures(t *testing.T) {
	user := seededUser(t)
	repo := &mockRepo{}
	repo.On("FindByEmail", mock.Anything, "user@nextmail.com").Return(user, nil)
	repo.On("FindByEmail", mock.Anything, "ghost@nextmail.com").Return(nil, domain.ErrUserNotFound)
	v := newVerifier(repo)

	_, wrongPassword := v.Verify(context.Background(), domain.Credentials{Email: "user@nextmail.com", Password: "654321"})
	_, unknownEmail := v.Verify(context.Background(), domain.Credentials{Email: "ghost@nextmail.com", Password: "123456"})

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.NotErrorIs(t, unknownEmail, domain.ErrUserNotFound)
}

func TestVerifyRejectsWithoutLookup(t *testing.T) {
	repo := &mockRepo{}
	v := newVerifier(repo)

	cases := []domain.Credentials{
		{Email: "user@nextmail.com", Password: "12345"},
		{Email: "not-an-email", Password: "123456"},
		{Email: "", Password: ""},
	}
	for _, creds := range cases {
		_, err := v.Verify(context.Background(), creds)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "%+v", creds)
	}
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestVerifySurfacesStoreFailure(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FindByEmail", mock.Anything, "user@nextmail.com").Return(nil, db.Unavailable(driver.ErrBadConn))

	_, err := newVerifier(repo).Verify(context.Background(), domain.Credentials{Email: "user@nextmail.com", Password: "123456"})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestProvisionThenVerify(t *testing.T) {
	users := memstore.New().Users()
	p := NewProvisioner(Params{Log: zap.NewNop(), Repo: users})

	created, err := p.Provision(context.Background(), domain.NewUser{
		Name:     " Ops ",
		Email:    "Ops@NextMail.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ops", created.Name)
	assert.Equal(t, "ops@nextmail.com", created.Email)
	assert.True(t, strings.HasPrefix(created.PasswordHash, "$argon2id$"), created.PasswordHash)

	got, err := New(Params{Log: zap.NewNop(), Repo: users}).Verify(context.Background(), domain.Credentials{
		Email:    "ops@nextmail.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = p.Provision(context.Background(), domain.NewUser{Name: "Again", Email: "ops@nextmail.com", Password: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestProvisionRejectsBadInput(t *testing.T) {
	repo := &mockRepo{}
	p := NewProvisioner(Params{Log: zap.NewNop(), Repo: repo})

	for _, in := range []domain.NewUser{
		{Name: "", Email: "ops@nextmail.com", Password: "123456"},
		{Name: "Ops", Email: "nope", Password: "123456"},
		{Name: "Ops", Email: "ops@nextmail.com", Password: "12345"},
	} {
		_, err := p.Provision(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidUser, "%+v", in)
	}
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
