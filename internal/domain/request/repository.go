package request

import "context"

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Status      Status
	RequestType RequestType
	RequesterID string
	Limit       int
	Offset      int
}

// Repository is the durable store contract. Implementations must keep a
// uniqueness constraint on request_number and honour compare-and-swap
// semantics on the entity version.
type Repository interface {
	Create(ctx context.Context, r *ApprovalRequest) error
	GetByID(ctx context.Context, id uint64) (*ApprovalRequest, error)
	GetByRequestNumber(ctx context.Context, number string) (*ApprovalRequest, error)
	// CompareAndSwap persists r conditioned on r.Version matching the
	// stored row; on success the version is bumped, on mismatch it
	// returns ErrConflict.
	CompareAndSwap(ctx context.Context, r *ApprovalRequest) error
	List(ctx context.Context, f Filter) ([]ApprovalRequest, error)
}
