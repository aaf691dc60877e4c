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

// ClientHandler handles client CRUD within the resolved firm scope
type ClientHandler struct {
	clientRepo repository.ClientRepository
	publisher  *events.Publisher
	logger     *logrus.Entry
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientRepo repository.ClientRepository, publisher *events.Publisher, logger *logrus.Logger) *ClientHandler {
	return &ClientHandler{
		clientRepo: clientRepo,
		publisher:  publisher,
		logger:     logger.WithField("component", "client_handler"),
	}
}

// CreateClient creates a client in the scoped firm
// @Summary Create client
// @Tags clients
// @Accept json
// @Produce json
// @Param request body models.CreateClientRequest true "Client data"
// @Success 201 {object} models.ClientResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)

	var req models.CreateClientRequest
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

	if _, err := h.clientRepo.GetByEmail(c.Request.Context(), firmID, req.Email); err == nil {
		respondConflict(c, "email", "A client with this email already exists in this firm")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		respondInternal(c, "Failed to create client")
		return
	}

	client := &models.Client{
		FirmID:    firmID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Address:   req.Address,
		Notes:     req.Notes,
		IsActive:  true,
	}

	if err := h.clientRepo.Create(c.Request.Context(), client); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "email", "A client with this email already exists in this firm")
			return
		}
		h.logger.WithError(err).Error("Failed to create client")
		respondInternal(c, "Failed to create client")
		return
	}

	if h.publisher != nil {
		h.publisher.Publish(events.SubjectClientCreated, firmID.String(), client.ID.String(),
			middleware.GetUserUUID(c).String(), nil)
	}

	c.JSON(http.StatusCreated, models.ClientResponse{Success: true, Data: client})
}

// ListClients lists the scoped firm's clients
// @Summary List clients
// @Tags clients
// @Produce json
// @Param search query string false "Name, email or company search"
// @Success 200 {object} models.ClientListResponse
// @Router /api/v1/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	page, limit := getPagination(c)
	search := c.Query("search")

	clients, total, err := h.clientRepo.List(c.Request.Context(), firmID, search, page, limit)
	if err != nil {
		respondInternal(c, "Failed to list clients")
		return
	}

	c.JSON(http.StatusOK, models.ClientListResponse{
		Success:    true,
		Data:       clients,
		Pagination: repository.BuildPagination(page, limit, total),
	})
}

// GetClient returns a client in the scoped firm
// @Summary Get client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientRepo.GetByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Client")
			return
		}
		respondInternal(c, "Failed to get client")
		return
	}

	c.JSON(http.StatusOK, models.ClientResponse{Success: true, Data: client})
}

// UpdateClient updates a client in the scoped firm
// @Summary Update client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body models.UpdateClientRequest true "Fields to update"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	client, err := h.clientRepo.GetByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Client")
			return
		}
		respondInternal(c, "Failed to get client")
		return
	}

	if req.Email != nil && *req.Email != client.Email {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			respondValidation(c, "email", "Invalid email format")
			return
		}
		if _, err := h.clientRepo.GetByEmail(c.Request.Context(), firmID, *req.Email); err == nil {
			respondConflict(c, "email", "A client with this email already exists in this firm")
			return
		} else if !errors.Is(err, repository.ErrNotFound) {
			respondInternal(c, "Failed to update client")
			return
		}
		client.Email = *req.Email
	}
	if req.Phone != nil {
		if *req.Phone != "" {
			if err := validation.ValidatePhone(*req.Phone); err != nil {
				respondValidation(c, "phone", "Invalid phone format")
				return
			}
		}
		client.Phone = req.Phone
	}
	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Company != nil {
		client.Company = req.Company
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := h.clientRepo.Update(c.Request.Context(), client); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "email", "A client with this email already exists in this firm")
			return
		}
		respondInternal(c, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, models.ClientResponse{Success: true, Data: client})
}

// DeleteClient soft-deletes a client in the scoped firm
// @Summary Delete client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientRepo.Delete(c.Request.Context(), firmID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Client")
			return
		}
		respondInternal(c, "Failed to delete client")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Client deleted"})
}
