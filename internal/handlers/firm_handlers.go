package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lawpractice-service/internal/events"
	"lawpractice-service/internal/middleware"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
	"lawpractice-service/internal/validation"
)

// FirmHandler handles firm CRUD and admin-firm bindings
type FirmHandler struct {
	firmRepo  repository.FirmRepository
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewFirmHandler creates a new FirmHandler
func NewFirmHandler(firmRepo repository.FirmRepository, publisher *events.Publisher, logger *logrus.Logger) *FirmHandler {
	return &FirmHandler{
		firmRepo:  firmRepo,
		publisher: publisher,
		logger:    logger.WithField("component", "firm_handler"),
	}
}

// CreateFirm creates a firm and binds the calling firm admin to it. Both
// writes happen in one transaction.
// @Summary Create firm
// @Tags firms
// @Accept json
// @Produce json
// @Param request body models.CreateFirmRequest true "Firm data"
// @Success 201 {object} models.FirmResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/firms [post]
func (h *FirmHandler) CreateFirm(c *gin.Context) {
	var req models.CreateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if req.Email != nil && *req.Email != "" {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			respondValidation(c, "email", "Invalid email format")
			return
		}
	}
	if req.Phone != nil && *req.Phone != "" {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			respondValidation(c, "phone", "Invalid phone format")
			return
		}
	}

	subdomain := validation.Slugify(req.Name)
	if subdomain == "" {
		respondValidation(c, "name", "Firm name must contain letters or digits")
		return
	}

	if _, err := h.firmRepo.GetBySubdomain(c.Request.Context(), subdomain); err == nil {
		respondConflict(c, "subdomain", "A firm with this subdomain already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.logger.WithError(err).Error("Failed to check subdomain")
		respondInternal(c, "Failed to create firm")
		return
	}

	firm := &models.Firm{
		Name:      req.Name,
		Subdomain: subdomain,
		Status:    models.FirmStatusActive,
		Plan:      models.FirmPlanFree,
		MaxUsers:  5,
		MaxCases:  50,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if req.Plan != nil {
		firm.Plan = *req.Plan
	}
	if req.MaxUsers != nil {
		firm.MaxUsers = *req.MaxUsers
	}
	if req.MaxCases != nil {
		firm.MaxCases = *req.MaxCases
	}

	adminID := middleware.GetUserUUID(c)
	if err := h.firmRepo.CreateWithAdmin(c.Request.Context(), firm, adminID); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "subdomain", "A firm with this subdomain already exists")
			return
		}
		h.logger.WithError(err).Error("Failed to create firm")
		respondInternal(c, "Failed to create firm")
		return
	}

	if h.publisher != nil {
		h.publisher.Publish(events.SubjectFirmCreated, firm.ID.String(), firm.ID.String(), adminID.String(), map[string]interface{}{
			"name":      firm.Name,
			"subdomain": firm.Subdomain,
		})
	}

	c.JSON(http.StatusCreated, models.FirmResponse{Success: true, Data: firm})
}

// ListFirms lists all firms (platform operators only)
// @Summary List firms
// @Tags firms
// @Produce json
// @Success 200 {object} models.FirmListResponse
// @Router /api/v1/firms [get]
func (h *FirmHandler) ListFirms(c *gin.Context) {
	page, limit := getPagination(c)

	firms, total, err := h.firmRepo.List(c.Request.Context(), page, limit)
	if err != nil {
		respondInternal(c, "Failed to list firms")
		return
	}

	c.JSON(http.StatusOK, models.FirmListResponse{
		Success:    true,
		Data:       firms,
		Pagination: repository.BuildPagination(page, limit, total),
	})
}

// GetFirm returns a firm by ID
// @Summary Get firm
// @Tags firms
// @Produce json
// @Param id path string true "Firm ID"
// @Success 200 {object} models.FirmResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/firms/{id} [get]
func (h *FirmHandler) GetFirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	firm, err := h.firmRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Firm")
			return
		}
		respondInternal(c, "Failed to get firm")
		return
	}

	c.JSON(http.StatusOK, models.FirmResponse{Success: true, Data: firm})
}

// UpdateFirm updates firm attributes, including status changes
// @Summary Update firm
// @Tags firms
// @Accept json
// @Produce json
// @Param id path string true "Firm ID"
// @Param request body models.UpdateFirmRequest true "Fields to update"
// @Success 200 {object} models.FirmResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/firms/{id} [put]
func (h *FirmHandler) UpdateFirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	firm, err := h.firmRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Firm")
			return
		}
		respondInternal(c, "Failed to get firm")
		return
	}

	oldStatus := firm.Status

	if req.Name != nil {
		firm.Name = *req.Name
	}
	if req.Status != nil {
		switch *req.Status {
		case models.FirmStatusActive, models.FirmStatusSuspended, models.FirmStatusTerminated:
			firm.Status = *req.Status
		default:
			respondValidation(c, "status", "Invalid firm status")
			return
		}
	}
	if req.Plan != nil {
		firm.Plan = *req.Plan
	}
	if req.MaxUsers != nil {
		firm.MaxUsers = *req.MaxUsers
	}
	if req.MaxCases != nil {
		firm.MaxCases = *req.MaxCases
	}
	if req.Address != nil {
		firm.Address = req.Address
	}
	if req.Phone != nil {
		firm.Phone = req.Phone
	}
	if req.Email != nil {
		firm.Email = req.Email
	}

	if err := h.firmRepo.Update(c.Request.Context(), firm); err != nil {
		respondInternal(c, "Failed to update firm")
		return
	}

	if h.publisher != nil && firm.Status != oldStatus {
		h.publisher.Publish(events.SubjectFirmStatusChanged, firm.ID.String(), firm.ID.String(),
			middleware.GetUserUUID(c).String(), map[string]interface{}{
				"oldStatus": string(oldStatus),
				"newStatus": string(firm.Status),
			})
	}

	c.JSON(http.StatusOK, models.FirmResponse{Success: true, Data: firm})
}

// DeleteFirm soft-deletes a firm
// @Summary Delete firm
// @Tags firms
// @Produce json
// @Param id path string true "Firm ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/firms/{id} [delete]
func (h *FirmHandler) DeleteFirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.firmRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Firm")
			return
		}
		respondInternal(c, "Failed to delete firm")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Firm deleted"})
}

// GetCurrentFirm returns the firm the calling admin's requests resolve to
// @Summary Current firm
// @Tags firms
// @Produce json
// @Success 200 {object} models.FirmResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/firms/current [get]
func (h *FirmHandler) GetCurrentFirm(c *gin.Context) {
	userID := middleware.GetUserUUID(c)

	binding, err := h.firmRepo.GetCurrentAdminFirm(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "FIRM_NOT_FOUND", Message: "No firm is associated with your account"},
			})
			return
		}
		respondInternal(c, "Failed to resolve current firm")
		return
	}

	c.JSON(http.StatusOK, models.FirmResponse{Success: true, Data: binding.Firm})
}

// SwitchCurrentFirm makes another bound firm the admin's current one
// @Summary Switch current firm
// @Tags firms
// @Produce json
// @Param id path string true "Firm ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/firms/current/{id} [put]
func (h *FirmHandler) SwitchCurrentFirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserUUID(c)
	if err := h.firmRepo.SetCurrentFirm(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "FIRM_NOT_FOUND", Message: "You are not an admin of this firm"},
			})
			return
		}
		respondInternal(c, "Failed to switch firm")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Current firm updated"})
}
