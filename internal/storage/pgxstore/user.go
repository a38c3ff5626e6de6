package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
)

type userRepo struct {
	pool *pgxpool.Pool
}

var _ authdomain.Repository = (*userRepo)(nil)

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authdomain.ErrUserNotFound
	}
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("get user: %w", err))
	}
	return &user, nil
}

func (r *userRepo) Insert(ctx context.Context, user *authdomain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Name, user.Email, user.PasswordHash)
	return storeerr.User(err)
}

type revenueRepo struct {
	pool *pgxpool.Pool
}

var _ dashboarddomain.RevenueRepository = (*revenueRepo)(nil)

func (r *revenueRepo) List(ctx context.Context) ([]dashboarddomain.Revenue, error) {
	rows, err := r.pool.Query(ctx, `SELECT month, revenue FROM revenue ORDER BY month ASC`)
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("list revenue: %w", err))
	}
	revenue, err := pgx.CollectRows(rows, pgx.RowToStructByName[dashboarddomain.Revenue])
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("iterate revenue: %w", err))
	}
	return revenue, nil
}

func (r *revenueRepo) Insert(ctx context.Context, revenue *dashboarddomain.Revenue) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO revenue (month, revenue) VALUES ($1, $2)`, revenue.Month, revenue.Revenue)
	return storeerr.Revenue(err)
}
