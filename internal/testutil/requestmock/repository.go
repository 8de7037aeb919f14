package requestmock

import (
	"context"

	domain "approval-engine/internal/domain/request"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the function fields a test needs; unfilled lookups report
// not-found and unfilled writes succeed.
type Repo struct {
	CreateFn             func(ctx context.Context, r *domain.ApprovalRequest) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.ApprovalRequest, error)
	GetByRequestNumberFn func(ctx context.Context, number string) (*domain.ApprovalRequest, error)
	CompareAndSwapFn     func(ctx context.Context, r *domain.ApprovalRequest) error
	ListFn               func(ctx context.Context, f domain.Filter) ([]domain.ApprovalRequest, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.ApprovalRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.ApprovalRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByRequestNumber(ctx context.Context, number string) (*domain.ApprovalRequest, error) {
	if m.GetByRequestNumberFn != nil {
		return m.GetByRequestNumberFn(ctx, number)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) CompareAndSwap(ctx context.Context, r *domain.ApprovalRequest) error {
	if m.CompareAndSwapFn != nil {
		return m.CompareAndSwapFn(ctx, r)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.ApprovalRequest, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
