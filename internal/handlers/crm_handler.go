package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"structa-system/internal/database/models"
	"structa-system/internal/middleware"
)

type CRMHandler struct {
	db *gorm.DB
}

func NewCRMHandler(db *gorm.DB) *CRMHandler {
	return &CRMHandler{db: db}
}

type CreateEnquiryRequest struct {
	ContactName string `json:"contact_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone,omitempty"`
	Subject     string `json:"subject" binding:"required"`
	Details     string `json:"details,omitempty"`
}

type CreateSupportRequest struct {
	ProjectID *int64 `json:"project_id,omitempty"`
	Subject   string `json:"subject" binding:"required"`
	Details   string `json:"details,omitempty"`
}

type UpdateSupportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress overdue closed"`
}

type CreateMeetingRequest struct {
	Purpose     string `json:"purpose" binding:"required"`
	RequestedAt string `json:"requested_at" binding:"required"` // RFC 3339
}

type UpdateMeetingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

func (h *CRMHandler) CreateEnquiry(c *gin.Context) {
	var req CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("contact_name, email and subject are required"))
		return
	}

	enquiry := models.Enquiry{
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Details:     req.Details,
		Status:      "new",
	}
	if claims := middleware.CtxClaims(c); claims != nil {
		enquiry.ClientID = &claims.UserId
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&enquiry).Error; err != nil {
		abortInternal(c, "crm_handler.go", "CreateEnquiry", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Enquiry submitted", enquiry))
}

func (h *CRMHandler) ListEnquiries(c *gin.Context) {
	var enquiries []models.Enquiry
	if err := h.db.WithContext(c.Request.Context()).Order("created_at desc").Find(&enquiries).Error; err != nil {
		abortInternal(c, "crm_handler.go", "ListEnquiries", "find", err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Enquiries retrieved", enquiries))
}

// ListSupportRequests scopes clients to their own tickets.
func (h *CRMHandler) ListSupportRequests(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.SupportRequest{})
	if !claims.IsAdmin() {
		q = q.Where("client_id = ?", claims.UserId)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.SupportRequest
	if err := q.Order("created_at desc").Find(&requests).Error; err != nil {
		abortInternal(c, "crm_handler.go", "ListSupportRequests", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Support requests retrieved", requests))
}

func (h *CRMHandler) CreateSupportRequest(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	var req CreateSupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("subject is required"))
		return
	}

	ctx := c.Request.Context()
	if req.ProjectID != nil {
		var project models.Project
		if err := h.db.WithContext(ctx).First(&project, *req.ProjectID).Error; err != nil {
			abortNotFound(c, "Project")
			return
		}
		if !canViewProject(claims, project) {
			abortForbidden(c)
			return
		}
	}

	request := models.SupportRequest{
		ClientID:  claims.UserId,
		ProjectID: req.ProjectID,
		Subject:   req.Subject,
		Details:   req.Details,
		Status:    models.SupportOpen,
	}
	if err := h.db.WithContext(ctx).Create(&request).Error; err != nil {
		abortInternal(c, "crm_handler.go", "CreateSupportRequest", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Support request created", request))
}

func (h *CRMHandler) UpdateSupportStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateSupportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("status must be open, in_progress, overdue or closed"))
		return
	}

	ctx := c.Request.Context()
	var request models.SupportRequest
	if err := h.db.WithContext(ctx).First(&request, id).Error; err != nil {
		abortNotFound(c, "Support request")
		return
	}
	if err := h.db.WithContext(ctx).Model(&request).Update("status", req.Status).Error; err != nil {
		abortInternal(c, "crm_handler.go", "UpdateSupportStatus", "update", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Support request updated", request))
}

func (h *CRMHandler) ListMeetingRequests(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.MeetingRequest{})
	if !claims.IsAdmin() {
		q = q.Where("client_id = ?", claims.UserId)
	}

	var requests []models.MeetingRequest
	if err := q.Order("requested_at desc").Find(&requests).Error; err != nil {
		abortInternal(c, "crm_handler.go", "ListMeetingRequests", "find", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Meeting requests retrieved", requests))
}

func (h *CRMHandler) CreateMeetingRequest(c *gin.Context) {
	claims := middleware.CtxClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("purpose and requested_at are required"))
		return
	}

	requestedAt, err := time.Parse(time.RFC3339, req.RequestedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("requested_at must be an RFC 3339 timestamp"))
		return
	}

	request := models.MeetingRequest{
		ClientID:    claims.UserId,
		Purpose:     req.Purpose,
		RequestedAt: &requestedAt,
		Status:      models.MeetingPending,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&request).Error; err != nil {
		abortInternal(c, "crm_handler.go", "CreateMeetingRequest", "insert", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Meeting request created", request))
}

func (h *CRMHandler) UpdateMeetingStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateMeetingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("status must be pending, confirmed, completed or cancelled"))
		return
	}

	ctx := c.Request.Context()
	var request models.MeetingRequest
	if err := h.db.WithContext(ctx).First(&request, id).Error; err != nil {
		abortNotFound(c, "Meeting request")
		return
	}
	if err := h.db.WithContext(ctx).Model(&request).Update("status", req.Status).Error; err != nil {
		abortInternal(c, "crm_handler.go", "UpdateMeetingStatus", "update", err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Meeting request updated", request))
}
