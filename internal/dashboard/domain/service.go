package domain

import (
	"context"
	"errors"
)

// RevenueRepository reads the revenue table. Insert exists for seeding.
type RevenueRepository interface {
	List(ctx context.Context) ([]Revenue, error)
	Insert(ctx context.Context, revenue *Revenue) error
}

type Service interface {
	CardSummary(ctx context.Context) (Cards, error)
	Revenue(ctx context.Context) ([]Revenue, error)
}

var ErrDuplicateMonth = errors.New("duplicate_month")
