package request

import (
	"time"

	domain "approval-engine/internal/domain/request"
)

type LevelInput struct {
	Level        int    `json:"level"`
	ApproverRole string `json:"approverRole"`
	ApproverID   string `json:"approverId,omitempty"`
	ApproverName string `json:"approverName,omitempty"`
}

type AttachmentInput struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType,omitempty"`
}

type CreateRequestInput struct {
	RequestType         string                `json:"requestType"`
	EntityReference     *domain.EntityRef     `json:"entityReference,omitempty"`
	Title               string                `json:"title"`
	Description         string                `json:"description,omitempty"`
	Priority            string                `json:"priority,omitempty"`
	Requester           domain.Requester      `json:"requester"`
	TypeSpecificDetails map[string]any        `json:"typeSpecificDetails,omitempty"`
	EventDetails        *domain.EventDetails  `json:"eventDetails,omitempty"`
	BudgetDetails       *domain.BudgetDetails `json:"budgetDetails,omitempty"`
	Attachments         []AttachmentInput     `json:"attachments,omitempty"`
	ApprovalWorkflow    []LevelInput          `json:"approvalWorkflow"`
	Deadline            *time.Time            `json:"deadline,omitempty"`
	IsUrgent            bool                  `json:"isUrgent,omitempty"`
	RelatedRequests     []string              `json:"relatedRequests,omitempty"`
}

type ListInput struct {
	Status      string
	RequestType string
	RequesterID string
	Limit       int
	Offset      int
}

// RequestSummary is the compact list-view shape; the full canonical
// document is returned only for single-request reads.
type RequestSummary struct {
	RequestNumber        string    `json:"requestNumber"`
	RequestType          string    `json:"requestType"`
	Title                string    `json:"title"`
	Priority             string    `json:"priority"`
	OverallStatus        string    `json:"overallStatus"`
	CurrentApprovalLevel int       `json:"currentApprovalLevel"`
	TotalLevels          int       `json:"totalLevels"`
	RequesterName        string    `json:"requesterName"`
	SubmittedAt          time.Time `json:"submittedAt"`
	IsUrgent             bool      `json:"isUrgent"`
}
