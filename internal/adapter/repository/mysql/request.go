package mysql

import (
	"context"
	"errors"

	domain "approval-engine/internal/domain/request"

	"gorm.io/gorm"
)

const maxListLimit = 200

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func (r *RequestRepository) Create(ctx context.Context, e *domain.ApprovalRequest) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id uint64) (*domain.ApprovalRequest, error) {
	var out domain.ApprovalRequest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *RequestRepository) GetByRequestNumber(ctx context.Context, number string) (*domain.ApprovalRequest, error) {
	var out domain.ApprovalRequest
	res := r.db.WithContext(ctx).Where("request_number = ?", number).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

// CompareAndSwap writes the full row guarded by the version the entity
// was loaded with. Zero rows affected means another writer got there
// first (or the row vanished); either way the caller must re-read.
func (r *RequestRepository) CompareAndSwap(ctx context.Context, e *domain.ApprovalRequest) error {
	expected := e.Version
	next := *e
	next.Version = expected + 1

	res := r.db.WithContext(ctx).
		Model(&domain.ApprovalRequest{}).
		Where("id = ? AND version = ?", e.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	e.Version = expected + 1
	return nil
}

func (r *RequestRepository) List(ctx context.Context, f domain.Filter) ([]domain.ApprovalRequest, error) {
	q := r.db.WithContext(ctx).Model(&domain.ApprovalRequest{})
	if f.Status != "" {
		q = q.Where("overall_status = ?", f.Status)
	}
	if f.RequestType != "" {
		q = q.Where("request_type = ?", f.RequestType)
	}
	if f.RequesterID != "" {
		// requester is a JSON column; match on the embedded userId
		q = q.Where("requester LIKE ?", `%"userId":"`+f.RequesterID+`"%`)
	}
	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	q = q.Order("submitted_at DESC, id DESC").Limit(limit)
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var out []domain.ApprovalRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
