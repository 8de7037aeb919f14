package workflow

import (
	"context"
	"errors"
	"time"

	domain "approval-engine/internal/domain/request"

	"go.uber.org/zap"
)

// Usecase orchestrates workflow transitions: load the request with its
// version, apply the pure transition, write back with compare-and-swap.
// On a version race the loser gets domain.ErrConflict and must re-read.
type Usecase struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, log: log}
}

func (u *Usecase) Approve(ctx context.Context, requestNumber string, in ApproveInput) (*domain.ApprovalRequest, error) {
	cur, err := u.repo.GetByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	next, err := cur.Approve(domain.ApproveAction{
		ApproverID:   in.ApproverID,
		ApproverName: in.ApproverName,
		Comments:     in.Comments,
		Signature:    in.Signature,
	}, time.Now().UTC())
	if err != nil {
		u.alertCorruption(requestNumber, cur, err)
		return nil, err
	}
	if err := u.repo.CompareAndSwap(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (u *Usecase) Reject(ctx context.Context, requestNumber string, in RejectInput) (*domain.ApprovalRequest, error) {
	cur, err := u.repo.GetByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	next, err := cur.Reject(domain.RejectAction{
		ApproverID:   in.ApproverID,
		ApproverName: in.ApproverName,
		Reason:       in.Reason,
		Comments:     in.Comments,
	}, time.Now().UTC())
	if err != nil {
		u.alertCorruption(requestNumber, cur, err)
		return nil, err
	}
	if err := u.repo.CompareAndSwap(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (u *Usecase) Cancel(ctx context.Context, requestNumber, reason string) (*domain.ApprovalRequest, error) {
	cur, err := u.repo.GetByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	next, err := cur.Cancel(reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := u.repo.CompareAndSwap(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// AddComment appends to the audit trail. Legal on terminal requests too.
func (u *Usecase) AddComment(ctx context.Context, requestNumber string, in CommentInput) (*domain.ApprovalRequest, error) {
	if in.UserID == "" {
		return nil, &domain.ValidationError{Field: "userId", Reason: "is required"}
	}
	if in.Text == "" {
		return nil, &domain.ValidationError{Field: "text", Reason: "is required"}
	}
	cur, err := u.repo.GetByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	next := cur.WithComment(in.UserID, in.UserName, in.Text, time.Now().UTC())
	if err := u.repo.CompareAndSwap(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// RecordNotification appends to the notificationsSent log on behalf of
// the dispatcher collaborator; workflow transitions never write there.
func (u *Usecase) RecordNotification(ctx context.Context, requestNumber, userID, kind string) (*domain.ApprovalRequest, error) {
	cur, err := u.repo.GetByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	next := cur.WithNotification(userID, kind, time.Now().UTC())
	if err := u.repo.CompareAndSwap(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// A pointer outside the workflow array means corrupted data, not a user
// mistake; log loudly before surfacing the error.
func (u *Usecase) alertCorruption(requestNumber string, r *domain.ApprovalRequest, err error) {
	if errors.Is(err, domain.ErrLevelNotFound) {
		u.log.Error("approval pointer outside workflow",
			zap.String("requestNumber", requestNumber),
			zap.Int("currentApprovalLevel", r.CurrentApprovalLevel),
			zap.Int("workflowLevels", len(r.ApprovalWorkflow)))
	}
}
