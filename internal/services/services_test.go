package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"property-desk/internal/metrics"
	"property-desk/internal/repository"
	"property-desk/internal/services"
	"property-desk/internal/testutil"
)

type fakePhotoStore struct {
	err     error
	stored  []string
	removed []string
}

func (s *fakePhotoStore) Store(_ context.Context, data []byte, filename string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	reference := "photos/" + filename
	s.stored = append(s.stored, reference)
	return reference, nil
}

func (s *fakePhotoStore) Remove(_ context.Context, reference string) error {
	s.removed = append(s.removed, reference)
	return nil
}

type fixture struct {
	db        *gorm.DB
	tenants   *services.TenantService
	requests  *services.MaintenanceService
	photos    *fakePhotoStore
	publisher *testutil.RecordingPublisher
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, testutil.NewDB(t))
}

func newFixtureOn(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		db:        db,
		photos:    &fakePhotoStore{},
		publisher: &testutil.RecordingPublisher{},
		metrics:   metrics.New(prometheus.NewRegistry()),
	}

	tenantRepo := repository.NewTenantRepository(db)
	requestRepo := repository.NewMaintenanceRepository(db)
	f.tenants = services.NewTenantService(tenantRepo, f.publisher, f.metrics, logger)
	f.requests = services.NewMaintenanceService(requestRepo, tenantRepo, f.photos, f.publisher, f.metrics, logger)
	return f
}

func errStore() error {
	return errors.New("bucket unavailable")
}
