package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"property-desk/internal/models"
)

// MaintenanceRepository handles maintenance request persistence
type MaintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new maintenance request repository
func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create inserts a request after confirming its tenant still exists.
// ErrNotFound means the tenant is gone.
func (r *MaintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("id = ?", request.TenantID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Omit("Tenant").Create(request).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID together with its tenant
func (r *MaintenanceRepository) GetByID(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	if err := r.db.WithContext(ctx).Preload("Tenant").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance request: %w", err)
	}
	return &request, nil
}

// Filter returns the requests matching every non-empty field of filter, ordered by ID
func (r *MaintenanceRepository) Filter(ctx context.Context, filter models.RequestFilter) ([]models.MaintenanceRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.MaintenanceRequest{})
	if filter.ApartmentNumber != "" {
		query = query.Where("apartment_number = ?", filter.ApartmentNumber)
	}
	if filter.ProblemArea != "" {
		query = query.Where("problem_area = ?", filter.ProblemArea)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var requests []models.MaintenanceRequest
	if err := query.Order("id").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to filter maintenance requests: %w", err)
	}
	return requests, nil
}

// MarkCompleted moves a pending request to completed with a single
// conditional update. ErrStateConflict means the request exists but is not pending.
func (r *MaintenanceRepository) MarkCompleted(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.MaintenanceRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		UpdateColumn("status", models.StatusCompleted)
	if result.Error != nil {
		return fmt.Errorf("failed to complete maintenance request: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.MaintenanceRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check maintenance request: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStateConflict
}
