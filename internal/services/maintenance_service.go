package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"property-desk/internal/events"
	"property-desk/internal/metrics"
	"property-desk/internal/models"
	"property-desk/internal/repository"
	"property-desk/internal/storage"
)

const resourceRequest = "maintenance request"

// PhotoUpload is a photo attached to a submission
type PhotoUpload struct {
	Filename string
	Data     []byte
}

// SubmitRequestInput carries the fields a tenant submits
type SubmitRequestInput struct {
	TenantID        uint         `json:"tenant_id" validate:"required"`
	ApartmentNumber string       `json:"apartment_number" validate:"required,max=10"`
	ProblemArea     string       `json:"problem_area" validate:"required,max=50"`
	Description     string       `json:"description" validate:"required"`
	Photo           *PhotoUpload `json:"-" validate:"-"`
}

// MaintenanceService manages the maintenance request ledger
type MaintenanceService struct {
	requests  *repository.MaintenanceRepository
	tenants   *repository.TenantRepository
	photos    storage.PhotoStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	requests *repository.MaintenanceRepository,
	tenants *repository.TenantRepository,
	photos storage.PhotoStore,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		requests:  requests,
		tenants:   tenants,
		photos:    photos,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       now,
	}
}

// SubmitRequest records a new pending request for an existing tenant,
// storing the optional photo first
func (s *MaintenanceService) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*models.MaintenanceRequest, error) {
	input.ApartmentNumber = strings.TrimSpace(input.ApartmentNumber)
	input.ProblemArea = strings.TrimSpace(input.ProblemArea)
	input.Description = strings.TrimSpace(input.Description)

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	exists, err := s.tenants.Exists(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewValidationError("tenant_id", "does not match an existing tenant")
	}

	var photo *string
	if input.Photo != nil {
		reference, err := s.storePhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		photo = &reference
	}

	request := &models.MaintenanceRequest{
		TenantID:        input.TenantID,
		ApartmentNumber: input.ApartmentNumber,
		ProblemArea:     input.ProblemArea,
		Description:     input.Description,
		SubmittedAt:     s.now(),
		Photo:           photo,
		Status:          models.StatusPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		s.discardPhoto(ctx, photo)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("tenant_id", "does not match an existing tenant")
		}
		return nil, err
	}

	s.metrics.RequestsSubmitted.Inc()
	s.publisher.Publish(ctx, events.SubjectRequestSubmitted, request)
	s.logger.WithFields(logrus.Fields{
		"request_id":   request.ID,
		"tenant_id":    request.TenantID,
		"problem_area": request.ProblemArea,
		"has_photo":    photo != nil,
	}).Info("Maintenance request submitted")

	return request, nil
}

// GetRequest returns a single request with its tenant
func (s *MaintenanceService) GetRequest(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(resourceRequest, id)
		}
		return nil, err
	}
	return request, nil
}

// FilterRequests returns the requests matching all non-empty filter fields
func (s *MaintenanceService) FilterRequests(ctx context.Context, filter models.RequestFilter) ([]models.MaintenanceRequest, error) {
	filter.ApartmentNumber = strings.TrimSpace(filter.ApartmentNumber)
	filter.ProblemArea = strings.TrimSpace(filter.ProblemArea)
	filter.Status = models.RequestStatus(strings.ToLower(strings.TrimSpace(string(filter.Status))))

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidationError("status", "must be one of: pending, completed")
	}

	return s.requests.Filter(ctx, filter)
}

// CompleteRequest moves a pending request to completed. Completing a
// request that is not pending fails with InvalidStateError.
func (s *MaintenanceService) CompleteRequest(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	if err := s.requests.MarkCompleted(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewNotFoundError(resourceRequest, id)
		case errors.Is(err, repository.ErrStateConflict):
			return nil, NewInvalidStateError(resourceRequest, id, "only pending requests can be completed")
		}
		return nil, err
	}

	s.metrics.RequestsCompleted.Inc()
	s.logger.WithField("request_id", id).Info("Maintenance request completed")

	request, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.SubjectRequestCompleted, request)

	return request, nil
}

func (s *MaintenanceService) storePhoto(ctx context.Context, photo *PhotoUpload) (string, error) {
	if len(photo.Data) == 0 {
		return "", NewValidationError("photo", "is empty")
	}

	reference, err := s.photos.Store(ctx, photo.Data, photo.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			return "", NewValidationError("photo", "has an invalid filename")
		}
		s.metrics.PhotoStoreFailures.Inc()
		s.logger.WithError(err).WithField("filename", photo.Filename).Error("Failed to store photo")
		return "", &StorageError{Op: "store photo", Err: err}
	}
	return reference, nil
}

func (s *MaintenanceService) discardPhoto(ctx context.Context, photo *string) {
	if photo == nil {
		return
	}
	if err := s.photos.Remove(ctx, *photo); err != nil {
		s.logger.WithError(err).WithField("photo", *photo).Warn("Failed to remove orphaned photo")
	}
}
