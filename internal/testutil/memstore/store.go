// Package memstore is an in-memory Repository with real compare-and-swap
// semantics, for tests that exercise version races without a database.
package memstore

import (
	"context"
	"sync"

	domain "approval-engine/internal/domain/request"
)

var _ domain.Repository = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]domain.ApprovalRequest
}

func New() *Store {
	return &Store{rows: map[uint64]domain.ApprovalRequest{}}
}

func (s *Store) Create(_ context.Context, r *domain.ApprovalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.RequestNumber == r.RequestNumber {
			return domain.ErrConflict
		}
	}
	s.nextID++
	r.ID = s.nextID
	if r.Version == 0 {
		r.Version = 1
	}
	s.rows[r.ID] = *r
	return nil
}

func (s *Store) GetByID(_ context.Context, id uint64) (*domain.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (s *Store) GetByRequestNumber(_ context.Context, number string) (*domain.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.RequestNumber == number {
			out := row
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CompareAndSwap(_ context.Context, r *domain.ApprovalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != r.Version {
		return domain.ErrConflict
	}
	r.Version++
	s.rows[r.ID] = *r
	return nil
}

func (s *Store) List(_ context.Context, f domain.Filter) ([]domain.ApprovalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ApprovalRequest
	for _, row := range s.rows {
		if f.Status != "" && row.OverallStatus != f.Status {
			continue
		}
		if f.RequestType != "" && row.RequestType != f.RequestType {
			continue
		}
		if f.RequesterID != "" && row.Requester.UserID != f.RequesterID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
