package services_test

import (
	"context"
	"sync"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-desk/internal/events"
	"property-desk/internal/models"
	"property-desk/internal/services"
	"property-desk/internal/storage"
	"property-desk/internal/testutil"
)

func addJane(t *testing.T, f *fixture) *models.Tenant {
	t.Helper()
	tenant, err := f.tenants.AddTenant(context.Background(), janeDoe())
	require.NoError(t, err)
	return tenant
}

func leakyFaucet(tenantID uint) services.SubmitRequestInput {
	return services.SubmitRequestInput{
		TenantID:        tenantID,
		ApartmentNumber: "12B",
		ProblemArea:     "plumbing",
		Description:     "leaky faucet",
	}
}

func requestIDs(requests []models.MaintenanceRequest) []uint {
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	jane := addJane(t, f)

	request, err := f.requests.SubmitRequest(ctx, leakyFaucet(jane.ID))
	require.NoError(t, err)
	assert.NotZero(t, request.ID)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.Nil(t, request.Photo)
	assert.False(t, request.SubmittedAt.IsZero())

	stored, err := f.requests.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, jane.ID, stored.TenantID)
	require.NotNil(t, stored.Tenant)
	assert.Equal(t, "Jane Doe", stored.Tenant.Name)

	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RequestsSubmitted))
	assert.Equal(t, []string{events.SubjectTenantCreated, events.SubjectRequestSubmitted}, f.publisher.Published())
}

func TestSubmitRequest_UnknownTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.requests.SubmitRequest(ctx, leakyFaucet(99))
	validationErr, ok := services.IsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, "tenant_id", validationErr.Field)

	all, err := f.requests.FilterRequests(ctx, models.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitRequest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*services.SubmitRequestInput)
		field  string
	}{
		{"missing tenant", func(in *services.SubmitRequestInput) { in.TenantID = 0 }, "tenant_id"},
		{"missing apartment", func(in *services.SubmitRequestInput) { in.ApartmentNumber = "" }, "apartment_number"},
		{"missing problem area", func(in *services.SubmitRequestInput) { in.ProblemArea = " " }, "problem_area"},
		{"missing description", func(in *services.SubmitRequestInput) { in.Description = "" }, "description"},
		{"empty photo", func(in *services.SubmitRequestInput) {
			in.Photo = &services.PhotoUpload{Filename: "sink.jpg"}
		}, "photo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			jane := addJane(t, f)
			input := leakyFaucet(jane.ID)
			tt.mutate(&input)

			_, err := f.requests.SubmitRequest(context.Background(), input)
			validationErr, ok := services.IsValidationError(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestSubmitRequest_WithPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	jane := addJane(t, f)

	input := leakyFaucet(jane.ID)
	input.Photo = &services.PhotoUpload{Filename: "sink.jpg", Data: []byte("jpeg")}

	request, err := f.requests.SubmitRequest(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, request.Photo)
	assert.Equal(t, "photos/sink.jpg", *request.Photo)
	assert.Equal(t, []string{"photos/sink.jpg"}, f.photos.stored)
}

func TestSubmitRequest_PhotoStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	jane := addJane(t, f)
	f.photos.err = errStore()

	input := leakyFaucet(jane.ID)
	input.Photo = &services.PhotoUpload{Filename: "sink.jpg", Data: []byte("jpeg")}

	_, err := f.requests.SubmitRequest(ctx, input)
	storageErr, ok := services.IsStorageError(err)
	require.True(t, ok, "expected StorageError, got %v", err)
	assert.EqualError(t, storageErr.Err, "bucket unavailable")

	all, err := f.requests.FilterRequests(ctx, models.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.PhotoStoreFailures))
	assert.Equal(t, 0.0, promtest.ToFloat64(f.metrics.RequestsSubmitted))
}

func TestSubmitRequest_InvalidPhotoFilename(t *testing.T) {
	f := newFixture(t)
	jane := addJane(t, f)
	f.photos.err = storage.ErrInvalidFilename

	input := leakyFaucet(jane.ID)
	input.Photo = &services.PhotoUpload{Filename: "..", Data: []byte("jpeg")}

	_, err := f.requests.SubmitRequest(context.Background(), input)
	validationErr, ok := services.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "photo", validationErr.Field)
	assert.Equal(t, 0.0, promtest.ToFloat64(f.metrics.PhotoStoreFailures))
}

func TestFilterRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	jane := addJane(t, f)

	plumbing, err := f.requests.SubmitRequest(ctx, leakyFaucet(jane.ID))
	require.NoError(t, err)
	heating, err := f.requests.SubmitRequest(ctx, services.SubmitRequestInput{
		TenantID: jane.ID, ApartmentNumber: "12B", ProblemArea: "heating", Description: "cold radiator",
	})
	require.NoError(t, err)
	_, err = f.requests.CompleteRequest(ctx, heating.ID)
	require.NoError(t, err)

	all, err := f.requests.FilterRequests(ctx, models.RequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{plumbing.ID, heating.ID}, requestIDs(all))

	pending, err := f.requests.FilterRequests(ctx, models.RequestFilter{Status: "PENDING"})
	require.NoError(t, err)
	assert.Equal(t, []uint{plumbing.ID}, requestIDs(pending))

	none, err := f.requests.FilterRequests(ctx, models.RequestFilter{ProblemArea: "heating", Status: models.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.requests.FilterRequests(ctx, models.RequestFilter{Status: "open"})
	validationErr, ok := services.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "status", validationErr.Field)
}

func TestCompleteRequest_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	jane := addJane(t, f)

	request, err := f.requests.SubmitRequest(ctx, leakyFaucet(jane.ID))
	require.NoError(t, err)

	completed, err := f.requests.CompleteRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	_, err = f.requests.CompleteRequest(ctx, request.ID)
	stateErr, ok := services.IsInvalidStateError(err)
	require.True(t, ok, "expected InvalidStateError, got %v", err)
	assert.Equal(t, request.ID, stateErr.ID)

	stored, err := f.requests.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RequestsCompleted))

	_, err = f.requests.CompleteRequest(ctx, 999)
	_, ok = services.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCompleteRequest_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixtureOn(t, testutil.NewFileDB(t))
	jane := addJane(t, f)

	request, err := f.requests.SubmitRequest(ctx, leakyFaucet(jane.ID))
	require.NoError(t, err)

	const workers = 2
	start := make(chan struct{})
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.requests.CompleteRequest(ctx, request.ID)
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		_, ok := services.IsInvalidStateError(err)
		require.True(t, ok, "expected InvalidStateError, got %v", err)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RequestsCompleted))

	stored, err := f.requests.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestJaneDoeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	jane := addJane(t, f)

	request, err := f.requests.SubmitRequest(ctx, leakyFaucet(jane.ID))
	require.NoError(t, err)

	pending, err := f.requests.FilterRequests(ctx, models.RequestFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Contains(t, requestIDs(pending), request.ID)

	_, err = f.requests.CompleteRequest(ctx, request.ID)
	require.NoError(t, err)

	pending, err = f.requests.FilterRequests(ctx, models.RequestFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.NotContains(t, requestIDs(pending), request.ID)

	completed, err := f.requests.FilterRequests(ctx, models.RequestFilter{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)

	got := completed[0]
	assert.Equal(t, request.ID, got.ID)
	assert.Equal(t, jane.ID, got.TenantID)
	assert.Equal(t, "12B", got.ApartmentNumber)
	assert.Equal(t, "plumbing", got.ProblemArea)
	assert.Equal(t, "leaky faucet", got.Description)
	assert.True(t, request.SubmittedAt.Equal(got.SubmittedAt))
	assert.Nil(t, got.Photo)
}
