package designsystem

import (
	"context"
	stdErrors "errors"
	"net/http"
	"testing"
	"time"

	"orion-os/internal/domain"
	"orion-os/internal/errors"
	"orion-os/redis"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryRepository keeps design systems in insertion order
type memoryRepository struct {
	systems []*domain.DesignSystem
}

func (r *memoryRepository) find(id, profileID string) *domain.DesignSystem {
	for _, ds := range r.systems {
		if ds.ID == id && ds.ProfileID == profileID {
			return ds
		}
	}
	return nil
}

func (r *memoryRepository) List(ctx context.Context, profileID string) ([]domain.DesignSystem, error) {
	out := []domain.DesignSystem{}
	for _, ds := range r.systems {
		if ds.ProfileID == profileID {
			out = append(out, *ds)
		}
	}
	return out, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	ds := r.find(id, profileID)
	if ds == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ds
	return &cp, nil
}

func (r *memoryRepository) FindActive(ctx context.Context, profileID string) (*domain.DesignSystem, error) {
	for _, ds := range r.systems {
		if ds.ProfileID == profileID && ds.IsActive {
			cp := *ds
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) Create(ctx context.Context, ds *domain.DesignSystem) error {
	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	cp := *ds
	r.systems = append(r.systems, &cp)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, id, profileID string, changes map[string]any) (*domain.DesignSystem, error) {
	ds := r.find(id, profileID)
	if ds == nil {
		return nil, gorm.ErrRecordNotFound
	}
	applyColumns(ds, changes)
	cp := *ds
	return &cp, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id, profileID string) error {
	for i, ds := range r.systems {
		if ds.ID == id && ds.ProfileID == profileID {
			r.systems = append(r.systems[:i], r.systems[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memoryRepository) Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	target := r.find(id, profileID)
	if target == nil {
		return nil, gorm.ErrRecordNotFound
	}
	for _, ds := range r.systems {
		if ds.ProfileID == profileID {
			ds.IsActive = false
		}
	}
	target.IsActive = true
	cp := *target
	return &cp, nil
}

func (r *memoryRepository) UpdateActive(ctx context.Context, profileID string, changes map[string]any) (*domain.DesignSystem, error) {
	for _, ds := range r.systems {
		if ds.ProfileID == profileID && ds.IsActive {
			applyColumns(ds, changes)
			cp := *ds
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func applyColumns(ds *domain.DesignSystem, changes map[string]any) {
	for _, f := range Fields {
		if v, ok := changes[f.Column]; ok {
			*f.ref(ds) = v.(string)
		}
	}
}

func newTestService(repo Repository) Service {
	return NewService(repo, redis.NewCache(nil), time.Hour)
}

func seedZenith(repo *memoryRepository, profileID string) *domain.DesignSystem {
	zenith := Zenith()
	zenith.ProfileID = profileID
	zenith.IsActive = true
	repo.Create(context.Background(), &zenith)
	return &zenith
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr *errors.APIError
	require.True(t, stdErrors.As(err, &apiErr), "expected APIError, got %v", err)
	assert.Equal(t, status, apiErr.Status)
}

func TestZenithThenDarkScenario(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	zenith := seedZenith(repo, "u1")

	dark, err := svc.Create(ctx, "u1", map[string]any{"name": "Dark", "backgroundColor": "#000000"})
	require.NoError(t, err)

	systems, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, systems, 2)

	active, err := svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Zenith", active.Name)

	_, err = svc.Activate(ctx, dark.ID, "u1")
	require.NoError(t, err)

	active, err = svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Dark", active.Name)

	z, err := svc.Get(ctx, zenith.ID, "u1")
	require.NoError(t, err)
	assert.False(t, z.IsActive)
}

func TestActivate_AtMostOneActive(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	seedZenith(repo, "u1")

	a, _ := svc.Create(ctx, "u1", map[string]any{"name": "A"})
	b, _ := svc.Create(ctx, "u1", map[string]any{"name": "B"})

	_, err := svc.Activate(ctx, a.ID, "u1")
	require.NoError(t, err)
	_, err = svc.Activate(ctx, b.ID, "u1")
	require.NoError(t, err)

	systems, _ := svc.List(ctx, "u1")
	active := 0
	for _, ds := range systems {
		if ds.IsActive {
			active++
			assert.Equal(t, b.ID, ds.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestActivate_ForeignIDIsNotFoundAndKeepsActive(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	mine := seedZenith(repo, "u1")
	theirs := seedZenith(repo, "u2")

	_, err := svc.Activate(ctx, theirs.ID, "u1")
	assertStatus(t, err, http.StatusNotFound)

	active, err := svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, mine.ID, active.ID)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&memoryRepository{})

	_, err := svc.Create(context.Background(), "u1", map[string]any{"name": "Bad", "primaryColor": "blue"})
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = svc.Create(context.Background(), "u1", map[string]any{"primaryColor": "#fff"})
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestUpdate_PartialFields(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	zenith := seedZenith(repo, "u1")

	updated, err := svc.Update(ctx, zenith.ID, "u1", map[string]any{"accentColor": "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", updated.AccentColor)
	assert.Equal(t, "Zenith", updated.Name)
	assert.True(t, updated.IsActive)
}

func TestUpdate_NotOwned(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	theirs := seedZenith(repo, "u2")

	_, err := svc.Update(ctx, theirs.ID, "u1", map[string]any{"name": "Mine now"})
	assertStatus(t, err, http.StatusNotFound)
}

func TestDelete_ActiveLeavesNoneActive(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	zenith := seedZenith(repo, "u1")

	require.NoError(t, svc.Delete(ctx, zenith.ID, "u1"))

	_, err := svc.GetActive(ctx, "u1")
	assertStatus(t, err, http.StatusNotFound)

	err = svc.Delete(ctx, zenith.ID, "u1")
	assertStatus(t, err, http.StatusNotFound)
}

func TestActiveCSS(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo)
	seedZenith(repo, "u1")

	css, err := svc.ActiveCSS(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, css, "--backgroundColor: #292929;")
}

func TestSetFont(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}
	svc := newTestService(repo)
	seedZenith(repo, "u1")

	ds, err := svc.SetFont(ctx, "u1", SlotSecondary, "/fonts/abc-Inter.ttf")
	require.NoError(t, err)
	assert.Equal(t, "/fonts/abc-Inter.ttf", ds.SecondaryFont)
	assert.Equal(t, "Arial", ds.PrimaryFont)

	_, err = svc.SetFont(ctx, "u1", FontSlot("body"), "/fonts/x.ttf")
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = svc.SetFont(ctx, "nobody", SlotPrimary, "/fonts/x.ttf")
	assertStatus(t, err, http.StatusNotFound)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, profileID string) ([]domain.DesignSystem, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DesignSystem), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockRepository) FindActive(ctx context.Context, profileID string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, ds *domain.DesignSystem) error {
	return m.Called(ctx, ds).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, id, profileID string, changes map[string]any) (*domain.DesignSystem, error) {
	args := m.Called(ctx, id, profileID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id, profileID string) error {
	return m.Called(ctx, id, profileID).Error(0)
}

func (m *MockRepository) Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockRepository) UpdateActive(ctx context.Context, profileID string, changes map[string]any) (*domain.DesignSystem, error) {
	args := m.Called(ctx, profileID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func TestList_StorageFailureIsPassedThrough(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)
	dbErr := stdErrors.New("connection reset")

	repo.On("List", mock.Anything, "u1").Return(nil, dbErr)

	_, err := svc.List(context.Background(), "u1")
	assert.ErrorIs(t, err, dbErr)
	repo.AssertExpectations(t)
}

func TestCreate_InvalidInputNeverReachesRepository(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "u1", map[string]any{"name": "X", "unknown": "y"})

	assertStatus(t, err, http.StatusUnprocessableEntity)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
