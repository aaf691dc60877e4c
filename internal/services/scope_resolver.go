package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// ScopeError is an authorization failure produced during firm scope
// resolution. It carries the HTTP status and error code for the envelope.
type ScopeError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *ScopeError) Error() string {
	return e.Message
}

var (
	errFirmSelectionRequired = &ScopeError{
		Code:       "BAD_REQUEST",
		Message:    "Firm selection required: pass X-Firm-ID header or firmId query parameter",
		StatusCode: http.StatusBadRequest,
	}
	errFirmNotFound = &ScopeError{
		Code:       "FIRM_NOT_FOUND",
		Message:    "No firm is associated with your account",
		StatusCode: http.StatusNotFound,
	}
	errFirmSuspended = &ScopeError{
		Code:       "FIRM_SUSPENDED",
		Message:    "This firm is suspended",
		StatusCode: http.StatusForbidden,
	}
	errFirmTerminated = &ScopeError{
		Code:       "FIRM_TERMINATED",
		Message:    "This firm is terminated",
		StatusCode: http.StatusForbidden,
	}
)

// ScopeResolver derives the firm a request operates on from the principal's
// role. Every firm-scoped handler runs behind it, so no request reaches a
// repository without a firm ID.
type ScopeResolver struct {
	firmRepo   repository.FirmRepository
	lawyerRepo repository.LawyerRepository
	clientRepo repository.ClientRepository
	logger     *logrus.Entry
}

// NewScopeResolver creates a new ScopeResolver
func NewScopeResolver(firmRepo repository.FirmRepository, lawyerRepo repository.LawyerRepository, clientRepo repository.ClientRepository, logger *logrus.Logger) *ScopeResolver {
	return &ScopeResolver{
		firmRepo:   firmRepo,
		lawyerRepo: lawyerRepo,
		clientRepo: clientRepo,
		logger:     logger.WithField("component", "scope_resolver"),
	}
}

// Resolve returns the firm the request is scoped to.
//
//   - Super Admin picks any firm explicitly (explicitFirmID); firm status is
//     not enforced for them.
//   - Firm Admin resolves through their current admin-firm binding.
//   - Lawyer and Client resolve through the firm on their own entity row.
//   - Custom roles resolve like firm staff: lawyer row first, then client row.
//
// Suspended and terminated firms fail resolution for everyone except Super
// Admin.
func (s *ScopeResolver) Resolve(ctx context.Context, userID uuid.UUID, role models.UserRole, explicitFirmID string) (*models.Firm, error) {
	if role == models.RoleSuperAdmin {
		return s.resolveExplicit(ctx, explicitFirmID)
	}

	firm, err := s.resolveForPrincipal(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	switch firm.Status {
	case models.FirmStatusSuspended:
		return nil, errFirmSuspended
	case models.FirmStatusTerminated:
		return nil, errFirmTerminated
	}

	return firm, nil
}

func (s *ScopeResolver) resolveExplicit(ctx context.Context, explicitFirmID string) (*models.Firm, error) {
	if explicitFirmID == "" {
		return nil, errFirmSelectionRequired
	}

	firmID, err := uuid.Parse(explicitFirmID)
	if err != nil {
		return nil, &ScopeError{
			Code:       "BAD_REQUEST",
			Message:    "Invalid firm ID",
			StatusCode: http.StatusBadRequest,
		}
	}

	firm, err := s.firmRepo.GetByID(ctx, firmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errFirmNotFound
		}
		return nil, err
	}
	return firm, nil
}

func (s *ScopeResolver) resolveForPrincipal(ctx context.Context, userID uuid.UUID, role models.UserRole) (*models.Firm, error) {
	switch role {
	case models.RoleFirmAdmin:
		binding, err := s.firmRepo.GetCurrentAdminFirm(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errFirmNotFound
			}
			return nil, err
		}
		if binding.Firm != nil {
			return binding.Firm, nil
		}
		return s.loadFirm(ctx, binding.FirmID)

	case models.RoleLawyer:
		lawyer, err := s.lawyerRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errFirmNotFound
			}
			return nil, err
		}
		return s.loadFirm(ctx, lawyer.FirmID)

	case models.RoleClient:
		client, err := s.clientRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errFirmNotFound
			}
			return nil, err
		}
		return s.loadFirm(ctx, client.FirmID)

	default:
		// Custom roles are held by firm staff: try the lawyer mapping first,
		// then the client mapping.
		if lawyer, err := s.lawyerRepo.GetByUserID(ctx, userID); err == nil {
			return s.loadFirm(ctx, lawyer.FirmID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if client, err := s.clientRepo.GetByUserID(ctx, userID); err == nil {
			return s.loadFirm(ctx, client.FirmID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, errFirmNotFound
	}
}

func (s *ScopeResolver) loadFirm(ctx context.Context, firmID uuid.UUID) (*models.Firm, error) {
	firm, err := s.firmRepo.GetByID(ctx, firmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errFirmNotFound
		}
		return nil, err
	}
	return firm, nil
}
