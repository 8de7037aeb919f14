package request

import (
	"errors"
	"time"
)

// Status is the overall lifecycle state of an approval request.
// Approved, Rejected and Cancelled are terminal.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
	StatusCancelled   Status = "Cancelled"
	StatusOnHold      Status = "On Hold"
)

// Terminal reports whether no further workflow transition is legal.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// LevelStatus is the state of a single approver level.
type LevelStatus string

const (
	LevelPending   LevelStatus = "Pending"
	LevelApproved  LevelStatus = "Approved"
	LevelRejected  LevelStatus = "Rejected"
	LevelForwarded LevelStatus = "Forwarded"
)

type RequestType string

const (
	TypeEventCreation       RequestType = "Event Creation"
	TypeEventModification   RequestType = "Event Modification"
	TypeEventCancellation   RequestType = "Event Cancellation"
	TypeBudgetApproval      RequestType = "Budget Approval"
	TypeVenueBooking        RequestType = "Venue Booking"
	TypeTrainerInvitation   RequestType = "Trainer Invitation"
	TypeResourceAllocation  RequestType = "Resource Allocation"
	TypeCertificateIssuance RequestType = "Certificate Issuance"
	TypeReportPublication   RequestType = "Report Publication"
	TypeLeaveRequest        RequestType = "Leave Request"
	TypeOther               RequestType = "Other"
)

// Valid reports whether t is one of the known request types.
func (t RequestType) Valid() bool {
	switch t {
	case TypeEventCreation, TypeEventModification, TypeEventCancellation,
		TypeBudgetApproval, TypeVenueBooking, TypeTrainerInvitation,
		TypeResourceAllocation, TypeCertificateIssuance,
		TypeReportPublication, TypeLeaveRequest, TypeOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type EntityType string

const (
	EntityEvent        EntityType = "Event"
	EntityRegistration EntityType = "Registration"
	EntityCertificate  EntityType = "Certificate"
	EntityReport       EntityType = "Report"
	EntityResource     EntityType = "Resource"
	EntityVenue        EntityType = "Venue"
	EntityBudget       EntityType = "Budget"
	EntityOther        EntityType = "Other"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityEvent, EntityRegistration, EntityCertificate, EntityReport,
		EntityResource, EntityVenue, EntityBudget, EntityOther:
		return true
	}
	return false
}

// Sentinel errors for the workflow engine; matched with errors.Is.
var (
	ErrNotFound            = errors.New("approval request not found")
	ErrNotActionable       = errors.New("request is in a terminal status")
	ErrLevelNotFound       = errors.New("current approval level not present in workflow")
	ErrConflict            = errors.New("request was modified concurrently")
	ErrIdentifierExhausted = errors.New("request number generation exhausted retries")
)

// ValidationError rejects malformed input before any store write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Field + " " + e.Reason
}

// EntityRef is a typed reference to the institutional record a request
// is about (polymorphic in the source documents, closed enum here).
type EntityRef struct {
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityId"`
}

type Requester struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// ApprovalLevel is one stage of the ordered approval sequence. Levels are
// numbered contiguously from 1 and never reordered or removed after
// creation.
type ApprovalLevel struct {
	Level        int         `json:"level"`
	ApproverRole string      `json:"approverRole"`
	ApproverID   string      `json:"approverId,omitempty"`
	ApproverName string      `json:"approverName,omitempty"`
	Status       LevelStatus `json:"status"`
	Comments     string      `json:"comments,omitempty"`
	ActionDate   *time.Time  `json:"actionDate,omitempty"`
	Signature    string      `json:"signature,omitempty"`
}

// Comment is an audit-trail entry, independent of per-level comments.
type Comment struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Attachment struct {
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileType   string    `json:"fileType,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Notification is written on behalf of the external dispatcher; the four
// workflow transitions never touch this log.
type Notification struct {
	UserID string    `json:"userId"`
	SentAt time.Time `json:"sentAt"`
	Type   string    `json:"type"`
}

type EventDetails struct {
	EventName            string     `json:"eventName,omitempty"`
	Venue                string     `json:"venue,omitempty"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	ExpectedParticipants int        `json:"expectedParticipants,omitempty"`
	Organizer            string     `json:"organizer,omitempty"`
}

type BudgetDetails struct {
	Amount     float64 `json:"amount,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Category   string  `json:"category,omitempty"`
	FiscalYear string  `json:"fiscalYear,omitempty"`
	Remarks    string  `json:"remarks,omitempty"`
}

// ApprovalRequest is the canonical document shape; JSON field names are
// an interop contract with external tooling that reads this shape.
type ApprovalRequest struct {
	// Internal numeric PK, hidden from the document shape.
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier, APR-YYYYMM-NNNNN, assigned once at creation.
	RequestNumber string      `gorm:"column:request_number;size:16;uniqueIndex:ux_requests_number" json:"requestNumber"`
	RequestType   RequestType `gorm:"column:request_type;size:30;index" json:"requestType"`

	EntityReference *EntityRef `gorm:"column:entity_reference;serializer:json" json:"entityReference,omitempty"`

	Title       string   `gorm:"column:title;size:200" json:"title"`
	Description string   `gorm:"column:description;type:text" json:"description,omitempty"`
	Priority    Priority `gorm:"column:priority;size:10" json:"priority"`

	Requester Requester `gorm:"column:requester;serializer:json" json:"requester"`

	TypeSpecificDetails map[string]any `gorm:"column:type_specific_details;serializer:json" json:"typeSpecificDetails,omitempty"`
	EventDetails        *EventDetails  `gorm:"column:event_details;serializer:json" json:"eventDetails,omitempty"`
	BudgetDetails       *BudgetDetails `gorm:"column:budget_details;serializer:json" json:"budgetDetails,omitempty"`
	Attachments         []Attachment   `gorm:"column:attachments;serializer:json" json:"attachments,omitempty"`

	ApprovalWorkflow     []ApprovalLevel `gorm:"column:approval_workflow;serializer:json" json:"approvalWorkflow"`
	CurrentApprovalLevel int             `gorm:"column:current_approval_level" json:"currentApprovalLevel"`
	OverallStatus        Status          `gorm:"column:overall_status;size:20;index" json:"overallStatus"`

	RejectionReason    string    `gorm:"column:rejection_reason;type:text" json:"rejectionReason,omitempty"`
	CancellationReason string    `gorm:"column:cancellation_reason;type:text" json:"cancellationReason,omitempty"`
	Comments           []Comment `gorm:"column:comments;serializer:json" json:"comments,omitempty"`

	SubmittedAt time.Time  `gorm:"column:submitted_at" json:"submittedAt"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Deadline    *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	IsUrgent    bool       `gorm:"column:is_urgent" json:"isUrgent"`

	NotificationsSent []Notification `gorm:"column:notifications_sent;serializer:json" json:"notificationsSent,omitempty"`
	RelatedRequests   []string       `gorm:"column:related_requests;serializer:json" json:"relatedRequests,omitempty"`

	// Optimistic-locking token; every write is a compare-and-swap on it.
	Version uint `gorm:"column:version;not null;default:1" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (ApprovalRequest) TableName() string { return "approval_requests" }
