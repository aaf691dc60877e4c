package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lawpractice-service/internal/middleware"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
	"lawpractice-service/internal/services"
)

// CaseHandler handles case CRUD, lawyer assignments and document metadata
// within the resolved firm scope
type CaseHandler struct {
	caseRepo    repository.CaseRepository
	clientRepo  repository.ClientRepository
	caseService *services.CaseService
	logger      *logrus.Entry
}

// NewCaseHandler creates a new CaseHandler
func NewCaseHandler(caseRepo repository.CaseRepository, clientRepo repository.ClientRepository, caseService *services.CaseService, logger *logrus.Logger) *CaseHandler {
	return &CaseHandler{
		caseRepo:    caseRepo,
		clientRepo:  clientRepo,
		caseService: caseService,
		logger:      logger.WithField("component", "case_handler"),
	}
}

// CreateCase opens a case in the scoped firm
// @Summary Create case
// @Tags cases
// @Accept json
// @Produce json
// @Param request body models.CreateCaseRequest true "Case data"
// @Success 201 {object} models.CaseResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/cases [post]
func (h *CaseHandler) CreateCase(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)

	var req models.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	created, err := h.caseService.Create(c.Request.Context(), firmID, &req, middleware.GetUserUUID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateCaseNumber):
			respondConflict(c, "caseNumber", "A case with this number already exists in this firm")
		case errors.Is(err, repository.ErrNotFound):
			respondNotFound(c, "Client")
		default:
			if repository.IsUniqueViolation(err) {
				respondConflict(c, "caseNumber", "A case with this number already exists in this firm")
				return
			}
			h.logger.WithError(err).Error("Failed to create case")
			respondInternal(c, "Failed to create case")
		}
		return
	}

	c.JSON(http.StatusCreated, models.CaseResponse{Success: true, Data: created})
}

// ListCases lists the scoped firm's cases, newest first
// @Summary List cases
// @Tags cases
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} models.CaseListResponse
// @Router /api/v1/cases [get]
func (h *CaseHandler) ListCases(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	page, limit := getPagination(c)

	status := models.CaseStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		respondValidation(c, "status", "Invalid case status")
		return
	}

	cases, total, err := h.caseRepo.List(c.Request.Context(), firmID, status, page, limit)
	if err != nil {
		respondInternal(c, "Failed to list cases")
		return
	}

	c.JSON(http.StatusOK, models.CaseListResponse{
		Success:    true,
		Data:       cases,
		Pagination: repository.BuildPagination(page, limit, total),
	})
}

// GetCase returns a case with its client and assigned lawyers
// @Summary Get case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} models.CaseResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	kase, err := h.caseRepo.GetByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Case")
			return
		}
		respondInternal(c, "Failed to get case")
		return
	}

	c.JSON(http.StatusOK, models.CaseResponse{Success: true, Data: kase})
}

// UpdateCase updates a case's attributes. Status changes go through the
// dedicated status endpoint.
// @Summary Update case
// @Tags cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body models.UpdateCaseRequest true "Fields to update"
// @Success 200 {object} models.CaseResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id} [put]
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	kase, err := h.caseRepo.GetByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Case")
			return
		}
		respondInternal(c, "Failed to get case")
		return
	}

	if req.Title != nil {
		kase.Title = *req.Title
	}
	if req.Description != nil {
		kase.Description = req.Description
	}
	if req.PracticeArea != nil {
		kase.PracticeArea = req.PracticeArea
	}
	if req.CourtName != nil {
		kase.CourtName = req.CourtName
	}
	if req.ClientID != nil && *req.ClientID != kase.ClientID {
		// the replacement client must belong to the scoped firm
		if _, err := h.clientRepo.GetByID(c.Request.Context(), firmID, *req.ClientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondNotFound(c, "Client")
				return
			}
			respondInternal(c, "Failed to update case")
			return
		}
		kase.ClientID = *req.ClientID
		kase.Client = nil
	}

	if err := h.caseRepo.Update(c.Request.Context(), kase); err != nil {
		respondInternal(c, "Failed to update case")
		return
	}

	c.JSON(http.StatusOK, models.CaseResponse{Success: true, Data: kase})
}

// UpdateCaseStatus transitions a case to a new status
// @Summary Change case status
// @Tags cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body models.UpdateCaseStatusRequest true "New status"
// @Success 200 {object} models.CaseResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id}/status [put]
func (h *CaseHandler) UpdateCaseStatus(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	kase, err := h.caseService.ChangeStatus(c.Request.Context(), firmID, id, req.Status, middleware.GetUserUUID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			respondValidation(c, "status", "Invalid case status")
		case errors.Is(err, repository.ErrNotFound):
			respondNotFound(c, "Case")
		default:
			h.logger.WithError(err).Error("Failed to change case status")
			respondInternal(c, "Failed to change case status")
		}
		return
	}

	c.JSON(http.StatusOK, models.CaseResponse{Success: true, Data: kase})
}

// DeleteCase soft-deletes a case
// @Summary Delete case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id} [delete]
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.caseRepo.Delete(c.Request.Context(), firmID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Case")
			return
		}
		respondInternal(c, "Failed to delete case")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Case deleted"})
}

// AssignLawyer adds a lawyer to the case team
// @Summary Assign lawyer to case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Param lawyerId path string true "Lawyer ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/cases/{id}/lawyers/{lawyerId} [post]
func (h *CaseHandler) AssignLawyer(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	caseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lawyerID, ok := parseIDParam(c, "lawyerId")
	if !ok {
		return
	}

	if err := h.caseRepo.AssignLawyer(c.Request.Context(), firmID, caseID, lawyerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyAssigned):
			respondConflict(c, "lawyerId", "Lawyer is already assigned to this case")
		case errors.Is(err, repository.ErrNotFound):
			respondNotFound(c, "Case or lawyer")
		default:
			respondInternal(c, "Failed to assign lawyer")
		}
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Lawyer assigned"})
}

// UnassignLawyer removes a lawyer from the case team
// @Summary Unassign lawyer from case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Param lawyerId path string true "Lawyer ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id}/lawyers/{lawyerId} [delete]
func (h *CaseHandler) UnassignLawyer(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	caseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lawyerID, ok := parseIDParam(c, "lawyerId")
	if !ok {
		return
	}

	if err := h.caseRepo.UnassignLawyer(c.Request.Context(), firmID, caseID, lawyerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Assignment")
			return
		}
		respondInternal(c, "Failed to unassign lawyer")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Lawyer unassigned"})
}

// AddCaseDocument attaches document metadata to a case
// @Summary Attach document metadata
// @Tags cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body models.CreateCaseDocumentRequest true "Document metadata"
// @Success 201 {object} models.CaseDocumentResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id}/documents [post]
func (h *CaseHandler) AddCaseDocument(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	caseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateCaseDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	uploadedBy := middleware.GetUserUUID(c)
	doc := &models.CaseDocument{
		FirmID:      firmID,
		CaseID:      caseID,
		Name:        req.Name,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  req.StorageKey,
		UploadedBy:  &uploadedBy,
	}

	if err := h.caseRepo.CreateDocument(c.Request.Context(), doc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Case")
			return
		}
		respondInternal(c, "Failed to attach document")
		return
	}

	c.JSON(http.StatusCreated, models.CaseDocumentResponse{Success: true, Data: doc})
}

// ListCaseDocuments lists document metadata attached to a case
// @Summary List case documents
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} models.CaseDocumentListResponse
// @Router /api/v1/cases/{id}/documents [get]
func (h *CaseHandler) ListCaseDocuments(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	caseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	docs, err := h.caseRepo.ListDocuments(c.Request.Context(), firmID, caseID)
	if err != nil {
		respondInternal(c, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, models.CaseDocumentListResponse{Success: true, Data: docs})
}

// DeleteCaseDocument removes document metadata from a case
// @Summary Delete case document
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Param docId path string true "Document ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/cases/{id}/documents/{docId} [delete]
func (h *CaseHandler) DeleteCaseDocument(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	caseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "docId")
	if !ok {
		return
	}

	if err := h.caseRepo.DeleteDocument(c.Request.Context(), firmID, caseID, docID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Document")
			return
		}
		respondInternal(c, "Failed to delete document")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Document deleted"})
}
