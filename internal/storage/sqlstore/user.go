package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
)

type UserRepositoryImpl struct {
	db *sqlx.DB
}

var _ authdomain.Repository = (*UserRepositoryImpl)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT id, name, email, password FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, authdomain.ErrUserNotFound
	}
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Insert(ctx context.Context, user *authdomain.User) error {
	const q = `INSERT INTO users (id, name, email, password) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), user.ID, user.Name, user.Email, user.PasswordHash)
	return storeerr.User(err)
}

type RevenueRepositoryImpl struct {
	db *sqlx.DB
}

var _ dashboarddomain.RevenueRepository = (*RevenueRepositoryImpl)(nil)

func NewRevenueRepository(db *sqlx.DB) *RevenueRepositoryImpl {
	return &RevenueRepositoryImpl{db: db}
}

func (r *RevenueRepositoryImpl) List(ctx context.Context) ([]dashboarddomain.Revenue, error) {
	revenue := []dashboarddomain.Revenue{}
	if err := r.db.SelectContext(ctx, &revenue, `SELECT month, revenue FROM revenue ORDER BY month ASC`); err != nil {
		return nil, storeerr.Generic(err)
	}
	return revenue, nil
}

func (r *RevenueRepositoryImpl) Insert(ctx context.Context, revenue *dashboarddomain.Revenue) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO revenue (month, revenue) VALUES (?, ?)`), revenue.Month, revenue.Revenue)
	return storeerr.Revenue(err)
}
