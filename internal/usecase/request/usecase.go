package request

import (
	"context"
	"errors"
	"time"

	domain "approval-engine/internal/domain/request"
	"approval-engine/pkg/reqnum"

	"go.uber.org/zap"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxNumberAttempts = 5
)

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

// Create validates the input, allocates a unique request number and
// persists the new request. Nothing is written before validation passes.
func (u *Usecase) Create(ctx context.Context, in CreateRequestInput) (*domain.ApprovalRequest, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	number, err := u.allocateNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	priority := domain.Priority(in.Priority)
	if in.Priority == "" {
		priority = domain.PriorityMedium
	}

	levels := make([]domain.ApprovalLevel, len(in.ApprovalWorkflow))
	for i, l := range in.ApprovalWorkflow {
		levels[i] = domain.ApprovalLevel{
			Level:        l.Level,
			ApproverRole: l.ApproverRole,
			ApproverID:   l.ApproverID,
			ApproverName: l.ApproverName,
			Status:       domain.LevelPending,
		}
	}

	var attachments []domain.Attachment
	for _, a := range in.Attachments {
		attachments = append(attachments, domain.Attachment{
			FileName:   a.FileName,
			FileURL:    a.FileURL,
			FileType:   a.FileType,
			UploadedAt: now,
		})
	}

	r := &domain.ApprovalRequest{
		RequestNumber:        number,
		RequestType:          domain.RequestType(in.RequestType),
		EntityReference:      in.EntityReference,
		Title:                in.Title,
		Description:          in.Description,
		Priority:             priority,
		Requester:            in.Requester,
		TypeSpecificDetails:  in.TypeSpecificDetails,
		EventDetails:         in.EventDetails,
		BudgetDetails:        in.BudgetDetails,
		Attachments:          attachments,
		ApprovalWorkflow:     levels,
		CurrentApprovalLevel: 1,
		OverallStatus:        domain.StatusPending,
		SubmittedAt:          now,
		Deadline:             in.Deadline,
		IsUrgent:             in.IsUrgent,
		RelatedRequests:      in.RelatedRequests,
		Version:              1,
	}

	if err := u.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// allocateNumber pairs each candidate with a store uniqueness probe and
// regenerates on collision, at most maxNumberAttempts times.
func (u *Usecase) allocateNumber(ctx context.Context, now time.Time) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := reqnum.Generate(now)
		_, err := u.repo.GetByRequestNumber(ctx, candidate)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return candidate, nil
		case err != nil:
			return "", err
		}
		// taken, regenerate
	}
	u.log.Error("request number generation exhausted retries",
		zap.Int("attempts", maxNumberAttempts))
	return "", domain.ErrIdentifierExhausted
}

func (u *Usecase) Get(ctx context.Context, requestNumber string) (*domain.ApprovalRequest, error) {
	return u.repo.GetByRequestNumber(ctx, requestNumber)
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]RequestSummary, error) {
	rows, err := u.repo.List(ctx, domain.Filter{
		Status:      domain.Status(in.Status),
		RequestType: domain.RequestType(in.RequestType),
		RequesterID: in.RequesterID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]RequestSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, RequestSummary{
			RequestNumber:        r.RequestNumber,
			RequestType:          string(r.RequestType),
			Title:                r.Title,
			Priority:             string(r.Priority),
			OverallStatus:        string(r.OverallStatus),
			CurrentApprovalLevel: r.CurrentApprovalLevel,
			TotalLevels:          len(r.ApprovalWorkflow),
			RequesterName:        r.Requester.Name,
			SubmittedAt:          r.SubmittedAt,
			IsUrgent:             r.IsUrgent,
		})
	}
	return out, nil
}

func validateCreate(in CreateRequestInput) error {
	if !domain.RequestType(in.RequestType).Valid() {
		return &domain.ValidationError{Field: "requestType", Reason: "unknown value"}
	}
	if in.Title == "" {
		return &domain.ValidationError{Field: "title", Reason: "is required"}
	}
	if len(in.Title) > maxTitleLen {
		return &domain.ValidationError{Field: "title", Reason: "too long"}
	}
	if len(in.Description) > maxDescriptionLen {
		return &domain.ValidationError{Field: "description", Reason: "too long"}
	}
	if in.Priority != "" && !domain.Priority(in.Priority).Valid() {
		return &domain.ValidationError{Field: "priority", Reason: "unknown value"}
	}
	if in.Requester.UserID == "" {
		return &domain.ValidationError{Field: "requester.userId", Reason: "is required"}
	}
	if in.Requester.Name == "" {
		return &domain.ValidationError{Field: "requester.name", Reason: "is required"}
	}
	if in.EntityReference != nil {
		if !in.EntityReference.EntityType.Valid() {
			return &domain.ValidationError{Field: "entityReference.entityType", Reason: "unknown value"}
		}
		if in.EntityReference.EntityID == "" {
			return &domain.ValidationError{Field: "entityReference.entityId", Reason: "is required"}
		}
	}
	if len(in.ApprovalWorkflow) == 0 {
		return &domain.ValidationError{Field: "approvalWorkflow", Reason: "must not be empty"}
	}
	for i, l := range in.ApprovalWorkflow {
		if l.Level != i+1 {
			return &domain.ValidationError{Field: "approvalWorkflow", Reason: "levels must be contiguous starting at 1"}
		}
		if l.ApproverRole == "" {
			return &domain.ValidationError{Field: "approvalWorkflow.approverRole", Reason: "is required"}
		}
	}
	return nil
}
