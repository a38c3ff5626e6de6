package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/smallbiznis/invoicedesk/internal/auth/domain"
	"github.com/smallbiznis/invoicedesk/internal/auth/password"
	"github.com/smallbiznis/invoicedesk/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

var (
	dummyOnce sync.Once
	dummyHash string
)

// dummy returns a bcrypt hash compared against when the email is unknown, so
// a miss costs the same as a wrong password.
func dummy() string {
	dummyOnce.Do(func() {
		hash, err := password.HashBcrypt("invoicedesk-timing-placeholder")
		if err == nil {
			dummyHash = hash
		}
	})
	return dummyHash
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Verifier {
	return newService(p)
}

// NewProvisioner returns the account provisioning side of the service.
func NewProvisioner(p Params) domain.Provisioner {
	return newService(p)
}

func newService(p Params) *Service {
	return &Service{
		log:     p.Log.Named("auth.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// Verify matches creds against the stored hash. It never reveals whether the
// email exists.
func (s *Service) Verify(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil || len(creds.Password) < domain.MinPasswordLength {
		s.metrics.RecordCredentialCheck(ctx, outcomeRejected)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			password.Verify(creds.Password, dummy())
			s.metrics.RecordCredentialCheck(ctx, outcomeRejected)
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error("failed to fetch user", zap.Error(err))
		s.metrics.RecordCredentialCheck(ctx, outcomeError)
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	if !password.Verify(creds.Password, user.PasswordHash) {
		s.metrics.RecordCredentialCheck(ctx, outcomeRejected)
		return nil, domain.ErrInvalidCredentials
	}

	s.metrics.RecordCredentialCheck(ctx, outcomeSuccess)
	return user, nil
}

// Provision stores a new user under a normalized email with an Argon2id hash.
func (s *Service) Provision(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email, err := normalizeEmail(input.Email)
	if err != nil || name == "" || len(input.Password) < domain.MinPasswordLength {
		return nil, domain.ErrInvalidUser
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		s.log.Error("failed to provision user", zap.Error(err))
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.log.Info("provisioned user", zap.String("user_id", user.ID))
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}
