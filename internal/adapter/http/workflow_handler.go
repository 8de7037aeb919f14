package http

import (
	"net/http"

	domain "approval-engine/internal/domain/request"
	"approval-engine/internal/notify"
	ucWorkflow "approval-engine/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

type WorkflowHandler struct {
	uc         *ucWorkflow.Usecase
	dispatcher notify.Dispatcher
}

func NewWorkflowHandler(uc *ucWorkflow.Usecase, dispatcher notify.Dispatcher) *WorkflowHandler {
	return &WorkflowHandler{uc: uc, dispatcher: dispatcher}
}

type approveReq struct {
	ApproverID   string `json:"approverId" validate:"required"`
	ApproverName string `json:"approverName" validate:"required"`
	Comments     string `json:"comments"`
	Signature    string `json:"signature"`
}

type rejectReq struct {
	ApproverID   string `json:"approverId" validate:"required"`
	ApproverName string `json:"approverName" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
	Comments     string `json:"comments"`
}

type cancelReq struct {
	Reason string `json:"reason" validate:"required"`
}

type commentReq struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

func (h *WorkflowHandler) pathNumber(c echo.Context) (string, bool) {
	number := c.Param("request_number")
	return number, reRequestNumber.MatchString(number)
}

func (h *WorkflowHandler) Approve(c echo.Context) error {
	number, ok := h.pathNumber(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_number path param"})
	}
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	out, err := h.uc.Approve(c.Request().Context(), number, ucWorkflow.ApproveInput{
		ApproverID:   req.ApproverID,
		ApproverName: req.ApproverName,
		Comments:     req.Comments,
		Signature:    req.Signature,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.notifyTransition(c, out)
	return c.JSON(http.StatusOK, out)
}

func (h *WorkflowHandler) Reject(c echo.Context) error {
	number, ok := h.pathNumber(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_number path param"})
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	out, err := h.uc.Reject(c.Request().Context(), number, ucWorkflow.RejectInput{
		ApproverID:   req.ApproverID,
		ApproverName: req.ApproverName,
		Reason:       req.Reason,
		Comments:     req.Comments,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.notifyTransition(c, out)
	return c.JSON(http.StatusOK, out)
}

func (h *WorkflowHandler) Cancel(c echo.Context) error {
	number, ok := h.pathNumber(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_number path param"})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	out, err := h.uc.Cancel(c.Request().Context(), number, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	h.notifyTransition(c, out)
	return c.JSON(http.StatusOK, out)
}

func (h *WorkflowHandler) AddComment(c echo.Context) error {
	number, ok := h.pathNumber(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_number path param"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	out, err := h.uc.AddComment(c.Request().Context(), number, ucWorkflow.CommentInput{
		UserID:   req.UserID,
		UserName: req.UserName,
		Text:     req.Text,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// notifyTransition fans out to the dispatcher after a successful
// transition: the requester on resolution, the next approver while the
// request is still moving. Delivery failures never fail the request.
func (h *WorkflowHandler) notifyTransition(c echo.Context, r *domain.ApprovalRequest) {
	if h.dispatcher == nil {
		return
	}
	ctx := c.Request().Context()
	switch r.OverallStatus {
	case domain.StatusApproved:
		_ = h.dispatcher.Notify(ctx, r.Requester.UserID, r.RequestNumber, notify.KindApproved)
	case domain.StatusRejected:
		_ = h.dispatcher.Notify(ctx, r.Requester.UserID, r.RequestNumber, notify.KindRejected)
	case domain.StatusCancelled:
		_ = h.dispatcher.Notify(ctx, r.Requester.UserID, r.RequestNumber, notify.KindCancelled)
	case domain.StatusUnderReview:
		for _, lvl := range r.ApprovalWorkflow {
			if lvl.Level == r.CurrentApprovalLevel && lvl.ApproverID != "" {
				_ = h.dispatcher.Notify(ctx, lvl.ApproverID, r.RequestNumber, notify.KindApprovalPending)
				break
			}
		}
	}
}
