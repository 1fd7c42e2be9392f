package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"property-desk/internal/models"
)

// TenantRepository handles tenant persistence
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create inserts a tenant. An email already taken, in any letter case, yields ErrDuplicate.
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("lower(email) = lower(?)", tenant.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check tenant email: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(tenant).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil && !errors.Is(err, ErrDuplicate) {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return err
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

// Exists reports whether a tenant with the given ID exists
func (r *TenantRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check tenant: %w", err)
	}
	return count > 0, nil
}

// List returns every tenant ordered by ID
func (r *TenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := r.db.WithContext(ctx).Order("id").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// UpdateApartment moves a tenant to another apartment and returns the updated row.
// Maintenance requests keep the apartment they were filed for.
func (r *TenantRepository) UpdateApartment(ctx context.Context, id uint, apartmentNumber string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Tenant{}).Where("id = ?", id).UpdateColumn("apartment_number", apartmentNumber)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&tenant, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to move tenant: %w", err)
	}
	return &tenant, nil
}

// SetCheckOut records the check-out time of a tenant that has not yet
// checked out. ErrStateConflict is returned for a tenant already checked out.
func (r *TenantRepository) SetCheckOut(ctx context.Context, id uint, at time.Time) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Tenant{}).
			Where("id = ? AND check_out_date IS NULL", id).
			UpdateColumn("check_out_date", at)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.First(&tenant, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return ErrStateConflict
		}
		return tx.First(&tenant, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStateConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to check out tenant: %w", err)
	}
	return &tenant, nil
}

// Delete removes a tenant together with all of its maintenance requests
// and returns how many requests were removed
func (r *TenantRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := tx.Where("tenant_id = ?", id).Delete(&models.MaintenanceRequest{})
		if requests.Error != nil {
			return requests.Error
		}
		removed = requests.RowsAffected

		result := tx.Delete(&models.Tenant{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to delete tenant: %w", err)
	}
	return removed, nil
}
