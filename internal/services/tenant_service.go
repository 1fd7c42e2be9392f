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
)

const resourceTenant = "tenant"

// AddTenantInput carries the fields a manager submits for a new tenant
type AddTenantInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Phone           string `json:"phone" validate:"required,max=20"`
	Email           string `json:"email" validate:"required,max=100"`
	ApartmentNumber string `json:"apartment_number" validate:"required,max=10"`
}

type moveTenantInput struct {
	ApartmentNumber string `json:"new_apartment_number" validate:"required,max=10"`
}

// TenantService manages the tenant directory
type TenantService struct {
	repo      *repository.TenantRepository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

// NewTenantService creates a new tenant service
func NewTenantService(repo *repository.TenantRepository, publisher events.Publisher, m *metrics.Metrics, logger *logrus.Logger) *TenantService {
	return &TenantService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       now,
	}
}

// AddTenant creates a tenant checked in at the current time
func (s *TenantService) AddTenant(ctx context.Context, input AddTenantInput) (*models.Tenant, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.ApartmentNumber = strings.TrimSpace(input.ApartmentNumber)

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		Name:            input.Name,
		Phone:           input.Phone,
		Email:           input.Email,
		ApartmentNumber: input.ApartmentNumber,
		CheckInDate:     s.now(),
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("email", "is already registered to another tenant")
		}
		return nil, err
	}

	s.metrics.TenantsAdded.Inc()
	s.publisher.Publish(ctx, events.SubjectTenantCreated, tenant)
	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenant.ID,
		"apartment": tenant.ApartmentNumber,
	}).Info("Tenant added")

	return tenant, nil
}

// GetTenant returns a single tenant
func (s *TenantService) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(resourceTenant, id)
		}
		return nil, err
	}
	return tenant, nil
}

// ListTenants returns every tenant ordered by ID
func (s *TenantService) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return s.repo.List(ctx)
}

// MoveTenant assigns the tenant to another apartment. Requests filed
// earlier keep their original apartment number.
func (s *TenantService) MoveTenant(ctx context.Context, id uint, newApartmentNumber string) (*models.Tenant, error) {
	input := moveTenantInput{ApartmentNumber: strings.TrimSpace(newApartmentNumber)}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	tenant, err := s.repo.UpdateApartment(ctx, id, input.ApartmentNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError(resourceTenant, id)
		}
		return nil, err
	}

	s.publisher.Publish(ctx, events.SubjectTenantMoved, tenant)
	s.logger.WithFields(logrus.Fields{
		"tenant_id": id,
		"apartment": tenant.ApartmentNumber,
	}).Info("Tenant moved")

	return tenant, nil
}

// CheckOutTenant stamps the tenant's check-out date
func (s *TenantService) CheckOutTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	tenant, err := s.repo.SetCheckOut(ctx, id, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewNotFoundError(resourceTenant, id)
		case errors.Is(err, repository.ErrStateConflict):
			return nil, NewValidationError("tenant_id", "tenant has already checked out")
		}
		return nil, err
	}

	s.publisher.Publish(ctx, events.SubjectTenantCheckedOut, tenant)
	s.logger.WithField("tenant_id", id).Info("Tenant checked out")

	return tenant, nil
}

// DeleteTenant removes the tenant and every maintenance request it filed
func (s *TenantService) DeleteTenant(ctx context.Context, id uint) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFoundError(resourceTenant, id)
		}
		return err
	}

	s.metrics.TenantsDeleted.Inc()
	s.publisher.Publish(ctx, events.SubjectTenantDeleted, map[string]interface{}{
		"tenant_id":        id,
		"requests_removed": removed,
	})
	s.logger.WithFields(logrus.Fields{
		"tenant_id":        id,
		"requests_removed": removed,
	}).Info("Tenant deleted")

	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
