package gormstore

import (
	"context"
	"errors"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

var _ authdomain.Repository = (*userRepo)(nil)

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authdomain.ErrUserNotFound
	}
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return &user, nil
}

func (r *userRepo) Insert(ctx context.Context, user *authdomain.User) error {
	return storeerr.User(r.db.WithContext(ctx).Create(user).Error)
}

type revenueRepo struct {
	db *gorm.DB
}

var _ dashboarddomain.RevenueRepository = (*revenueRepo)(nil)

func (r *revenueRepo) List(ctx context.Context) ([]dashboarddomain.Revenue, error) {
	var revenue []dashboarddomain.Revenue
	if err := r.db.WithContext(ctx).Order("month ASC").Find(&revenue).Error; err != nil {
		return nil, storeerr.Generic(err)
	}
	return revenue, nil
}

func (r *revenueRepo) Insert(ctx context.Context, revenue *dashboarddomain.Revenue) error {
	return storeerr.Revenue(r.db.WithContext(ctx).Create(revenue).Error)
}
