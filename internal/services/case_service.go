package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lawpractice-service/internal/events"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

var (
	// ErrInvalidStatus is returned for a status value outside the enum
	ErrInvalidStatus = errors.New("invalid case status")
	// ErrDuplicateCaseNumber is returned when the case number is taken within the firm
	ErrDuplicateCaseNumber = errors.New("case number already exists in this firm")
)

// CaseService owns the case lifecycle: creation and status transitions with
// their closed_at / opened_at bookkeeping.
type CaseService struct {
	caseRepo   repository.CaseRepository
	clientRepo repository.ClientRepository
	publisher  *events.Publisher
	logger     *logrus.Entry
}

// NewCaseService creates a new CaseService
func NewCaseService(caseRepo repository.CaseRepository, clientRepo repository.ClientRepository, publisher *events.Publisher, logger *logrus.Logger) *CaseService {
	return &CaseService{
		caseRepo:   caseRepo,
		clientRepo: clientRepo,
		publisher:  publisher,
		logger:     logger.WithField("component", "case_service"),
	}
}

// Create opens a new case for the firm. The client must belong to the same
// firm and the case number must be unique within it.
func (s *CaseService) Create(ctx context.Context, firmID uuid.UUID, req *models.CreateCaseRequest, actorID uuid.UUID) (*models.Case, error) {
	if _, err := s.clientRepo.GetByID(ctx, firmID, req.ClientID); err != nil {
		return nil, err
	}

	if _, err := s.caseRepo.GetByNumber(ctx, firmID, req.CaseNumber); err == nil {
		return nil, ErrDuplicateCaseNumber
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	c := &models.Case{
		FirmID:       firmID,
		ClientID:     req.ClientID,
		CaseNumber:   req.CaseNumber,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.CaseStatusOpen,
		PracticeArea: req.PracticeArea,
		CourtName:    req.CourtName,
		OpenedAt:     time.Now(),
	}
	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(events.SubjectCaseCreated, firmID.String(), c.ID.String(), actorID.String(), map[string]interface{}{
			"caseNumber": c.CaseNumber,
			"title":      c.Title,
		})
	}

	return c, nil
}

// ChangeStatus transitions a case to a new status.
//
// Entering Closed stamps closed_at; leaving Closed clears it and refreshes
// opened_at. Setting the current status again is a no-op, and an unknown
// status value leaves the case untouched.
func (s *CaseService) ChangeStatus(ctx context.Context, firmID, caseID uuid.UUID, newStatus models.CaseStatus, actorID uuid.UUID) (*models.Case, error) {
	if !newStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	c, err := s.caseRepo.GetByID(ctx, firmID, caseID)
	if err != nil {
		return nil, err
	}

	if c.Status == newStatus {
		return c, nil
	}

	oldStatus := c.Status
	now := time.Now()

	if newStatus == models.CaseStatusClosed {
		c.ClosedAt = &now
	} else if oldStatus == models.CaseStatusClosed {
		c.ClosedAt = nil
		c.OpenedAt = now
	}
	c.Status = newStatus

	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"case_id":    caseID,
		"firm_id":    firmID,
		"old_status": oldStatus,
		"new_status": newStatus,
	}).Info("Case status changed")

	if s.publisher != nil {
		s.publisher.Publish(events.SubjectCaseStatusChanged, firmID.String(), c.ID.String(), actorID.String(), map[string]interface{}{
			"oldStatus": string(oldStatus),
			"newStatus": string(newStatus),
		})
	}

	return c, nil
}
