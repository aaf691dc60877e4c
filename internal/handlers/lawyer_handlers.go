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

// LawyerHandler handles lawyer CRUD within the resolved firm scope
type LawyerHandler struct {
	lawyerRepo repository.LawyerRepository
	publisher  *events.Publisher
	logger     *logrus.Entry
}

// NewLawyerHandler creates a new LawyerHandler
func NewLawyerHandler(lawyerRepo repository.LawyerRepository, publisher *events.Publisher, logger *logrus.Logger) *LawyerHandler {
	return &LawyerHandler{
		lawyerRepo: lawyerRepo,
		publisher:  publisher,
		logger:     logger.WithField("component", "lawyer_handler"),
	}
}

// CreateLawyer creates a lawyer in the scoped firm
// @Summary Create lawyer
// @Tags lawyers
// @Accept json
// @Produce json
// @Param request body models.CreateLawyerRequest true "Lawyer data"
// @Success 201 {object} models.LawyerResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/lawyers [post]
func (h *LawyerHandler) CreateLawyer(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)

	var req models.CreateLawyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		respondValidation(c, "email", "Invalid email format")
		return
	}
	if req.Phone != nil && *req.Phone != "" {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			respondValidation(c, "phone", "Invalid phone format")
			return
		}
	}

	// Email is unique within the firm, not globally
	if _, err := h.lawyerRepo.GetByEmail(c.Request.Context(), firmID, req.Email); err == nil {
		respondConflict(c, "email", "A lawyer with this email already exists in this firm")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		respondInternal(c, "Failed to create lawyer")
		return
	}

	lawyer := &models.Lawyer{
		FirmID:     firmID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		BarNumber:  req.BarNumber,
		Specialty:  req.Specialty,
		HourlyRate: req.HourlyRate,
		IsActive:   true,
	}

	if err := h.lawyerRepo.Create(c.Request.Context(), lawyer); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "email", "A lawyer with this email already exists in this firm")
			return
		}
		h.logger.WithError(err).Error("Failed to create lawyer")
		respondInternal(c, "Failed to create lawyer")
		return
	}

	if h.publisher != nil {
		h.publisher.Publish(events.SubjectLawyerCreated, firmID.String(), lawyer.ID.String(),
			middleware.GetUserUUID(c).String(), nil)
	}

	c.JSON(http.StatusCreated, models.LawyerResponse{Success: true, Data: lawyer})
}

// ListLawyers lists the scoped firm's lawyers
// @Summary List lawyers
// @Tags lawyers
// @Produce json
// @Param search query string false "Name or email search"
// @Success 200 {object} models.LawyerListResponse
// @Router /api/v1/lawyers [get]
func (h *LawyerHandler) ListLawyers(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	page, limit := getPagination(c)
	search := c.Query("search")

	lawyers, total, err := h.lawyerRepo.List(c.Request.Context(), firmID, search, page, limit)
	if err != nil {
		respondInternal(c, "Failed to list lawyers")
		return
	}

	c.JSON(http.StatusOK, models.LawyerListResponse{
		Success:    true,
		Data:       lawyers,
		Pagination: repository.BuildPagination(page, limit, total),
	})
}

// GetLawyer returns a lawyer in the scoped firm
// @Summary Get lawyer
// @Tags lawyers
// @Produce json
// @Param id path string true "Lawyer ID"
// @Success 200 {object} models.LawyerResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/lawyers/{id} [get]
func (h *LawyerHandler) GetLawyer(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lawyer, err := h.lawyerRepo.GetByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Lawyer")
			return
		}
		respondInternal(c, "Failed to get lawyer")
		return
	}

	c.JSON(http.StatusOK, models.LawyerResponse{Success: true, Data: lawyer})
}

// UpdateLawyer updates a lawyer in the scoped firm
// @Summary Update lawyer
// @Tags lawyers
// @Accept json
// @Produce json
// @Param id path string true "Lawyer ID"
// @Param request body models.UpdateLawyerRequest true "Fields to update"
// @Success 200 {object} models.LawyerResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/lawyers/{id} [put]
func (h *LawyerHandler) UpdateLawyer(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateLawyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	lawyer, err := h.lawyerRepo.GetByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Lawyer")
			return
		}
		respondInternal(c, "Failed to get lawyer")
		return
	}

	if req.Email != nil && *req.Email != lawyer.Email {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			respondValidation(c, "email", "Invalid email format")
			return
		}
		if _, err := h.lawyerRepo.GetByEmail(c.Request.Context(), firmID, *req.Email); err == nil {
			respondConflict(c, "email", "A lawyer with this email already exists in this firm")
			return
		} else if !errors.Is(err, repository.ErrNotFound) {
			respondInternal(c, "Failed to update lawyer")
			return
		}
		lawyer.Email = *req.Email
	}
	if req.Phone != nil {
		if *req.Phone != "" {
			if err := validation.ValidatePhone(*req.Phone); err != nil {
				respondValidation(c, "phone", "Invalid phone format")
				return
			}
		}
		lawyer.Phone = req.Phone
	}
	if req.FirstName != nil {
		lawyer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		lawyer.LastName = *req.LastName
	}
	if req.BarNumber != nil {
		lawyer.BarNumber = req.BarNumber
	}
	if req.Specialty != nil {
		lawyer.Specialty = req.Specialty
	}
	if req.HourlyRate != nil {
		lawyer.HourlyRate = req.HourlyRate
	}
	if req.IsActive != nil {
		lawyer.IsActive = *req.IsActive
	}

	if err := h.lawyerRepo.Update(c.Request.Context(), lawyer); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "email", "A lawyer with this email already exists in this firm")
			return
		}
		respondInternal(c, "Failed to update lawyer")
		return
	}

	c.JSON(http.StatusOK, models.LawyerResponse{Success: true, Data: lawyer})
}

// DeleteLawyer soft-deletes a lawyer in the scoped firm
// @Summary Delete lawyer
// @Tags lawyers
// @Produce json
// @Param id path string true "Lawyer ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/lawyers/{id} [delete]
func (h *LawyerHandler) DeleteLawyer(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lawyerRepo.Delete(c.Request.Context(), firmID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Lawyer")
			return
		}
		respondInternal(c, "Failed to delete lawyer")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Lawyer deleted"})
}
