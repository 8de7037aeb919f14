package request

import "time"

// Transition rules are pure: they take the current entity by value and
// return a deep-copied updated entity or a typed error. All I/O and
// concurrency control stays in the workflow use-case.

type ApproveAction struct {
	ApproverID   string
	ApproverName string
	Comments     string
	Signature    string
}

type RejectAction struct {
	ApproverID   string
	ApproverName string
	Reason       string
	Comments     string
}

// clone deep-copies the slices and map so transition results never alias
// the input entity's backing arrays.
func (r ApprovalRequest) clone() ApprovalRequest {
	out := r
	if r.ApprovalWorkflow != nil {
		out.ApprovalWorkflow = make([]ApprovalLevel, len(r.ApprovalWorkflow))
		copy(out.ApprovalWorkflow, r.ApprovalWorkflow)
	}
	if r.Comments != nil {
		out.Comments = make([]Comment, len(r.Comments))
		copy(out.Comments, r.Comments)
	}
	if r.Attachments != nil {
		out.Attachments = make([]Attachment, len(r.Attachments))
		copy(out.Attachments, r.Attachments)
	}
	if r.NotificationsSent != nil {
		out.NotificationsSent = make([]Notification, len(r.NotificationsSent))
		copy(out.NotificationsSent, r.NotificationsSent)
	}
	if r.RelatedRequests != nil {
		out.RelatedRequests = make([]string, len(r.RelatedRequests))
		copy(out.RelatedRequests, r.RelatedRequests)
	}
	if r.TypeSpecificDetails != nil {
		m := make(map[string]any, len(r.TypeSpecificDetails))
		for k, v := range r.TypeSpecificDetails {
			m[k] = v
		}
		out.TypeSpecificDetails = m
	}
	return out
}

// currentLevelIndex returns the index of the first level in document
// order whose number equals the current pointer, or -1.
func (r ApprovalRequest) currentLevelIndex() int {
	for i := range r.ApprovalWorkflow {
		if r.ApprovalWorkflow[i].Level == r.CurrentApprovalLevel {
			return i
		}
	}
	return -1
}

// Approve marks the current level approved and either advances the
// pointer or, on the last level, resolves the whole request.
func (r ApprovalRequest) Approve(act ApproveAction, now time.Time) (ApprovalRequest, error) {
	if r.OverallStatus.Terminal() {
		return ApprovalRequest{}, ErrNotActionable
	}
	idx := r.currentLevelIndex()
	if idx < 0 {
		return ApprovalRequest{}, ErrLevelNotFound
	}

	out := r.clone()
	lvl := &out.ApprovalWorkflow[idx]
	lvl.Status = LevelApproved
	lvl.ApproverID = act.ApproverID
	lvl.ApproverName = act.ApproverName
	lvl.Comments = act.Comments
	lvl.Signature = act.Signature
	at := now
	lvl.ActionDate = &at

	if out.ReviewedAt == nil {
		out.ReviewedAt = &at
	}
	if out.CurrentApprovalLevel < len(out.ApprovalWorkflow) {
		out.CurrentApprovalLevel++
		out.OverallStatus = StatusUnderReview
	} else {
		out.OverallStatus = StatusApproved
		out.CompletedAt = &at
	}
	return out, nil
}

// Reject resolves the request immediately; levels after the current one
// stay Pending permanently as historical record.
func (r ApprovalRequest) Reject(act RejectAction, now time.Time) (ApprovalRequest, error) {
	if r.OverallStatus.Terminal() {
		return ApprovalRequest{}, ErrNotActionable
	}
	idx := r.currentLevelIndex()
	if idx < 0 {
		return ApprovalRequest{}, ErrLevelNotFound
	}

	out := r.clone()
	lvl := &out.ApprovalWorkflow[idx]
	lvl.Status = LevelRejected
	lvl.ApproverID = act.ApproverID
	lvl.ApproverName = act.ApproverName
	lvl.Comments = act.Comments
	at := now
	lvl.ActionDate = &at

	if out.ReviewedAt == nil {
		out.ReviewedAt = &at
	}
	out.OverallStatus = StatusRejected
	out.RejectionReason = act.Reason
	out.CompletedAt = &at
	return out, nil
}

// Cancel is legal only while the request is still in flight.
func (r ApprovalRequest) Cancel(reason string, now time.Time) (ApprovalRequest, error) {
	switch r.OverallStatus {
	case StatusPending, StatusUnderReview, StatusOnHold:
	default:
		return ApprovalRequest{}, ErrNotActionable
	}
	out := r.clone()
	at := now
	out.OverallStatus = StatusCancelled
	out.CancellationReason = reason
	out.CompletedAt = &at
	return out, nil
}

// WithComment appends an audit-trail comment. Always legal, terminal
// requests included; never touches status or the level pointer.
func (r ApprovalRequest) WithComment(userID, userName, text string, now time.Time) ApprovalRequest {
	out := r.clone()
	out.Comments = append(out.Comments, Comment{
		UserID:    userID,
		UserName:  userName,
		Text:      text,
		Timestamp: now,
	})
	return out
}

// WithNotification appends to the notificationsSent log on behalf of the
// external dispatcher collaborator.
func (r ApprovalRequest) WithNotification(userID, kind string, now time.Time) ApprovalRequest {
	out := r.clone()
	out.NotificationsSent = append(out.NotificationsSent, Notification{
		UserID: userID,
		SentAt: now,
		Type:   kind,
	})
	return out
}
