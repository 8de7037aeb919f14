package http

import (
	"net/http"
	"strconv"
	"time"

	domain "approval-engine/internal/domain/request"
	ucRequest "approval-engine/internal/usecase/request"

	"github.com/labstack/echo/v4"
)

type RequestHandler struct{ uc *ucRequest.Usecase }

func NewRequestHandler(uc *ucRequest.Usecase) *RequestHandler { return &RequestHandler{uc: uc} }

type levelReq struct {
	Level        int    `json:"level" validate:"required,gte=1"`
	ApproverRole string `json:"approverRole" validate:"required"`
	ApproverID   string `json:"approverId"`
	ApproverName string `json:"approverName"`
}

type attachmentReq struct {
	FileName string `json:"fileName" validate:"required"`
	FileURL  string `json:"fileUrl" validate:"required,url"`
	FileType string `json:"fileType"`
}

type entityRefReq struct {
	EntityType string `json:"entityType" validate:"required,enttype"`
	EntityID   string `json:"entityId" validate:"required"`
}

type createRequestReq struct {
	RequestType         string                `json:"requestType" validate:"required,reqtype"`
	EntityReference     *entityRefReq         `json:"entityReference" validate:"omitempty"`
	Title               string                `json:"title" validate:"required,max=200"`
	Description         string                `json:"description" validate:"max=2000"`
	Priority            string                `json:"priority" validate:"omitempty,prio"`
	Requester           domain.Requester      `json:"requester" validate:"required"`
	TypeSpecificDetails map[string]any        `json:"typeSpecificDetails"`
	EventDetails        *domain.EventDetails  `json:"eventDetails"`
	BudgetDetails       *domain.BudgetDetails `json:"budgetDetails"`
	Attachments         []attachmentReq       `json:"attachments" validate:"omitempty,dive"`
	ApprovalWorkflow    []levelReq            `json:"approvalWorkflow" validate:"required,min=1,dive"`
	Deadline            *time.Time            `json:"deadline"`
	IsUrgent            bool                  `json:"isUrgent"`
	RelatedRequests     []string              `json:"relatedRequests"`
}

func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := ucRequest.CreateRequestInput{
		RequestType:         req.RequestType,
		Title:               req.Title,
		Description:         req.Description,
		Priority:            req.Priority,
		Requester:           req.Requester,
		TypeSpecificDetails: req.TypeSpecificDetails,
		EventDetails:        req.EventDetails,
		BudgetDetails:       req.BudgetDetails,
		Deadline:            req.Deadline,
		IsUrgent:            req.IsUrgent,
		RelatedRequests:     req.RelatedRequests,
	}
	if req.EntityReference != nil {
		in.EntityReference = &domain.EntityRef{
			EntityType: domain.EntityType(req.EntityReference.EntityType),
			EntityID:   req.EntityReference.EntityID,
		}
	}
	for _, l := range req.ApprovalWorkflow {
		in.ApprovalWorkflow = append(in.ApprovalWorkflow, ucRequest.LevelInput{
			Level:        l.Level,
			ApproverRole: l.ApproverRole,
			ApproverID:   l.ApproverID,
			ApproverName: l.ApproverName,
		})
	}
	for _, a := range req.Attachments {
		in.Attachments = append(in.Attachments, ucRequest.AttachmentInput{
			FileName: a.FileName,
			FileURL:  a.FileURL,
			FileType: a.FileType,
		})
	}

	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *RequestHandler) GetRequest(c echo.Context) error {
	number := c.Param("request_number")
	if !reRequestNumber.MatchString(number) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_number path param"})
	}
	out, err := h.uc.Get(c.Request().Context(), number)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) ListRequests(c echo.Context) error {
	in := ucRequest.ListInput{
		Status:      c.QueryParam("status"),
		RequestType: c.QueryParam("type"),
		RequesterID: c.QueryParam("requester"),
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			in.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			in.Offset = n
		}
	}
	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
