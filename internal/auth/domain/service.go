package domain

import "context"

// MinPasswordLength mirrors the sign-in form rule.
const MinPasswordLength = 6

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Verifier checks credentials without side effects. Every failure to match,
// including an unknown email, is ErrInvalidCredentials.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (*User, error)
}

// NewUser is the input for provisioning an account.
type NewUser struct {
	Name     string
	Email    string
	Password string
}

// Provisioner creates accounts with Argon2id password hashes.
type Provisioner interface {
	Provision(ctx context.Context, input NewUser) (*User, error)
}
