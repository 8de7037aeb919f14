// Package notify is the external notification collaborator: invoked by
// the API layer after a successful transition, never by the engine.
package notify

import "context"

type Kind string

const (
	KindSubmitted       Kind = "request_submitted"
	KindApprovalPending Kind = "approval_pending"
	KindApproved        Kind = "request_approved"
	KindRejected        Kind = "request_rejected"
	KindCancelled       Kind = "request_cancelled"
)

type Dispatcher interface {
	Notify(ctx context.Context, userID, requestNumber string, kind Kind) error
}
