package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Account, error) {
	args := m.Called(ctx, telegramID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAccountStore) Update(ctx context.Context, telegramID int64, updates map[string]interface{}) (*domain.Account, error) {
	args := m.Called(ctx, telegramID, updates)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	return m.Called(ctx, event, payload).Error(0)
}

// memStore is a goroutine-safe store enforcing Telegram id uniqueness.
type memStore struct {
	mu      sync.Mutex
	byTG    map[int64]*domain.Account
	creates int
	// gate, when set, holds every Create until it is closed.
	gate chan struct{}
}

func newMemStore() *memStore { return &memStore{byTG: map[int64]*domain.Account{}} }

func (s *memStore) GetByTelegramID(_ context.Context, telegramID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byTG[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) Create(_ context.Context, a *domain.Account) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byTG[a.TelegramID]; ok {
		return domain.ErrDuplicateIdentity
	}
	cp := *a
	s.byTG[a.TelegramID] = &cp
	s.creates++
	return nil
}

func (s *memStore) Update(_ context.Context, telegramID int64, _ map[string]interface{}) (*domain.Account, error) {
	return nil, errors.New("not implemented")
}

// --- helpers ---

var fixedNow = time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

func newSvc(store accountStore, pub eventPublisher) Service {
	deps := ServiceDeps{AccountRepo: store, Now: func() time.Time { return fixedNow }}
	if pub != nil {
		deps.Publisher = pub
	}
	return NewService(deps)
}

func ana() domain.TelegramProfile {
	return domain.TelegramProfile{ID: 42, FirstName: "Ana"}
}

func ptr[T any](v T) *T { return &v }

// --- Resolve tests ---

func TestResolve_ExistingAccountReturnedUnchanged(t *testing.T) {
	existing := &domain.Account{AccountID: "acc1", TelegramID: 42, FirstName: "Ana"}
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(existing, nil)

	profile := ana()
	profile.FirstName = "Renamed"
	profile.Username = ptr("ana_new")

	got, err := newSvc(store, nil).Resolve(context.Background(), profile)

	require.NoError(t, err)
	assert.Same(t, existing, got)
	assert.Equal(t, "Ana", got.FirstName)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_CreatesAccountOnFirstSight(t *testing.T) {
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

	got, err := newSvc(store, nil).Resolve(context.Background(), ana())

	require.NoError(t, err)
	assert.NotEmpty(t, got.AccountID)
	assert.Equal(t, int64(42), got.TelegramID)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Nil(t, got.Username)
	assert.Nil(t, got.LastName)
	assert.Equal(t, domain.DefaultGoals(), got.Goals)
	assert.Equal(t, fixedNow, got.CreatedAt)
	store.AssertExpectations(t)
}

func TestResolve_MissingFirstNameDefaultsToEmpty(t *testing.T) {
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(7)).Return(nil, domain.ErrNotFound)
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

	got, err := newSvc(store, nil).Resolve(context.Background(), domain.TelegramProfile{ID: 7, Username: ptr("bo")})

	require.NoError(t, err)
	assert.Equal(t, "", got.FirstName)
	require.NotNil(t, got.Username)
	assert.Equal(t, "bo", *got.Username)
}

func TestResolve_DuplicateIdentityReturnsWinner(t *testing.T) {
	winner := &domain.Account{AccountID: "winner", TelegramID: 42, FirstName: "Ana"}
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound).Once()
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(domain.ErrDuplicateIdentity)
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(winner, nil).Once()

	got, err := newSvc(store, nil).Resolve(context.Background(), ana())

	require.NoError(t, err)
	assert.Equal(t, "winner", got.AccountID)
	store.AssertExpectations(t)
}

func TestResolve_LookupErrorPropagates(t *testing.T) {
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, errors.New("throttled"))

	_, err := newSvc(store, nil).Resolve(context.Background(), ana())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolve_CreateErrorPropagates(t *testing.T) {
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("boom"))

	_, err := newSvc(store, nil).Resolve(context.Background(), ana())

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrDuplicateIdentity))
}

func TestResolve_RejectsZeroID(t *testing.T) {
	_, err := newSvc(&mockAccountStore{}, nil).Resolve(context.Background(), domain.TelegramProfile{FirstName: "x"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestResolve_Idempotent(t *testing.T) {
	store := newMemStore()
	svc := newSvc(store, nil)

	first, err := svc.Resolve(context.Background(), ana())
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), ana())
	require.NoError(t, err)

	assert.Equal(t, first.AccountID, second.AccountID)
	assert.Equal(t, "Ana", second.FirstName)
	assert.Equal(t, 1, store.creates)
}

func TestResolve_ConcurrentFirstSignInCreatesOneAccount(t *testing.T) {
	store := newMemStore()
	store.gate = make(chan struct{})
	svc := newSvc(store, nil)

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := svc.Resolve(context.Background(), ana())
			errs[i] = err
			if a != nil {
				ids[i] = a.AccountID
			}
		}(i)
	}
	// Let every goroutine observe "not found" before any create lands.
	time.Sleep(50 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, store.creates)
}

func TestResolve_PublishesCreatedEvent(t *testing.T) {
	store := newMemStore()
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, EventAccountCreated, mock.Anything).Return(nil)

	_, err := newSvc(store, pub).Resolve(context.Background(), ana())
	require.NoError(t, err)
	_, err = newSvc(store, pub).Resolve(context.Background(), ana())
	require.NoError(t, err)

	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestResolve_PublishFailureDoesNotFailSignIn(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, EventAccountCreated, mock.Anything).Return(errors.New("sns down"))

	got, err := newSvc(newMemStore(), pub).Resolve(context.Background(), ana())

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.TelegramID)
}

// --- Update tests ---

func TestUpdate_EmptyRequest_ReturnsExistingAccount(t *testing.T) {
	existing := &domain.Account{AccountID: "acc1", TelegramID: 42}
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(existing, nil)

	got, err := newSvc(store, nil).Update(context.Background(), 42, domain.UpdateAccountRequest{})

	require.NoError(t, err)
	assert.Same(t, existing, got)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OnlyProvidedFields(t *testing.T) {
	updated := &domain.Account{AccountID: "acc1", TelegramID: 42, FirstName: "Anna"}
	store := &mockAccountStore{}
	store.On("Update", mock.Anything, int64(42), map[string]interface{}{
		"first_name":       "Anna",
		"daily_water_goal": 10,
	}).Return(updated, nil)

	got, err := newSvc(store, nil).Update(context.Background(), 42, domain.UpdateAccountRequest{
		FirstName:      ptr("Anna"),
		DailyWaterGoal: ptr(10),
	})

	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
	store.AssertExpectations(t)
}

func TestSetGoals_WritesEveryGoal(t *testing.T) {
	goals := domain.Goals{DailyCalorieGoal: 1800, DailyProteinGoal: 120, DailyCarbsGoal: 200, DailyFatGoal: 60, DailyWaterGoal: 9}
	store := &mockAccountStore{}
	store.On("Update", mock.Anything, int64(42), map[string]interface{}{
		"daily_calorie_goal": 1800,
		"daily_protein_goal": 120,
		"daily_carbs_goal":   200,
		"daily_fat_goal":     60,
		"daily_water_goal":   9,
	}).Return(&domain.Account{TelegramID: 42, Goals: goals}, nil)

	got, err := newSvc(store, nil).SetGoals(context.Background(), 42, goals)

	require.NoError(t, err)
	assert.Equal(t, goals, got.Goals)
	store.AssertExpectations(t)
}

func TestGoals_ReadsStoredGoals(t *testing.T) {
	goals := domain.Goals{DailyCalorieGoal: 2200, DailyWaterGoal: 10}
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(42)).Return(&domain.Account{TelegramID: 42, Goals: goals}, nil)

	got, err := newSvc(store, nil).Goals(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, goals, *got)
}

func TestGoals_UnknownAccount(t *testing.T) {
	store := &mockAccountStore{}
	store.On("GetByTelegramID", mock.Anything, int64(7)).Return(nil, domain.ErrNotFound)

	_, err := newSvc(store, nil).Goals(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
