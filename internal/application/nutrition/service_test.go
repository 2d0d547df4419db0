package nutrition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockMealStore struct{ mock.Mock }

func (m *mockMealStore) Put(ctx context.Context, meal *domain.Meal) error {
	return m.Called(ctx, meal).Error(0)
}
func (m *mockMealStore) Get(ctx context.Context, userID, mealID string) (*domain.Meal, error) {
	args := m.Called(ctx, userID, mealID)
	if v, _ := args.Get(0).(*domain.Meal); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMealStore) Update(ctx context.Context, userID, mealID string, updates map[string]interface{}) (*domain.Meal, error) {
	args := m.Called(ctx, userID, mealID, updates)
	if v, _ := args.Get(0).(*domain.Meal); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMealStore) Delete(ctx context.Context, userID, mealID string) error {
	return m.Called(ctx, userID, mealID).Error(0)
}
func (m *mockMealStore) ListByUser(ctx context.Context, userID, date string) ([]domain.Meal, error) {
	args := m.Called(ctx, userID, date)
	v, _ := args.Get(0).([]domain.Meal)
	return v, args.Error(1)
}

type mockWaterStore struct{ mock.Mock }

func (m *mockWaterStore) Put(ctx context.Context, l *domain.WaterLog) error {
	return m.Called(ctx, l).Error(0)
}
func (m *mockWaterStore) ListByUser(ctx context.Context, userID, date string) ([]domain.WaterLog, error) {
	args := m.Called(ctx, userID, date)
	v, _ := args.Get(0).([]domain.WaterLog)
	return v, args.Error(1)
}

// --- helpers ---

var fixedNow = time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC)

func newSvc(meals mealStore, water waterStore) Service {
	return NewService(ServiceDeps{MealRepo: meals, WaterRepo: water, Now: func() time.Time { return fixedNow }})
}

func ptr[T any](v T) *T { return &v }

// --- meals ---

func TestCreateMeal_DefaultsDateToToday(t *testing.T) {
	meals := &mockMealStore{}
	meals.On("Put", mock.Anything, mock.AnythingOfType("*domain.Meal")).Return(nil)

	m, err := newSvc(meals, &mockWaterStore{}).CreateMeal(context.Background(), "u1", domain.CreateMealRequest{
		Name: "Oats", MealType: domain.MealBreakfast, Calories: ptr(350),
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-01-29", m.MealDate)
	assert.Equal(t, "u1", m.UserID)
	assert.NotEmpty(t, m.MealID)
	meals.AssertExpectations(t)
}

func TestListMeals_SortsAndPaginates(t *testing.T) {
	meals := &mockMealStore{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	meals.On("ListByUser", mock.Anything, "u1", "").Return([]domain.Meal{
		{MealID: "a", MealDate: "2026-01-28", CreatedAt: base},
		{MealID: "b", MealDate: "2026-01-29", CreatedAt: base},
		{MealID: "c", MealDate: "2026-01-29", CreatedAt: base.Add(time.Hour)},
	}, nil)

	got, err := newSvc(meals, &mockWaterStore{}).ListMeals(context.Background(), "u1", domain.MealFilter{Limit: 2})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].MealID)
	assert.Equal(t, "b", got[1].MealID)
}

func TestUpdateMeal_OnlyProvidedFields(t *testing.T) {
	meals := &mockMealStore{}
	meals.On("Update", mock.Anything, "u1", "m1", map[string]interface{}{
		"calories": 500,
		"protein":  30.5,
	}).Return(&domain.Meal{MealID: "m1"}, nil)

	_, err := newSvc(meals, &mockWaterStore{}).UpdateMeal(context.Background(), "u1", "m1", domain.UpdateMealRequest{
		Calories: ptr(500), Protein: ptr(30.5),
	})

	require.NoError(t, err)
	meals.AssertExpectations(t)
}

func TestUpdateMeal_EmptyRequest(t *testing.T) {
	meals := &mockMealStore{}
	meals.On("Get", mock.Anything, "u1", "m1").Return(nil, domain.ErrNotFound)

	_, err := newSvc(meals, &mockWaterStore{}).UpdateMeal(context.Background(), "u1", "m1", domain.UpdateMealRequest{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- water ---

func TestLogWater_Defaults(t *testing.T) {
	water := &mockWaterStore{}
	water.On("Put", mock.Anything, mock.AnythingOfType("*domain.WaterLog")).Return(nil)

	l, err := newSvc(&mockMealStore{}, water).LogWater(context.Background(), "u1", domain.CreateWaterLogRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, l.Glasses)
	assert.Equal(t, "2026-01-29", l.LogDate)
}

func TestTodayWater_SumsToday(t *testing.T) {
	water := &mockWaterStore{}
	water.On("ListByUser", mock.Anything, "u1", "2026-01-29").Return([]domain.WaterLog{{Glasses: 2}, {Glasses: 3}}, nil)

	total, err := newSvc(&mockMealStore{}, water).TodayWater(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestListWater_NewestFirst(t *testing.T) {
	water := &mockWaterStore{}
	base := time.Date(2026, 1, 29, 8, 0, 0, 0, time.UTC)
	water.On("ListByUser", mock.Anything, "u1", "").Return([]domain.WaterLog{
		{LogID: "old", LogDate: "2026-01-28", CreatedAt: base},
		{LogID: "new", LogDate: "2026-01-29", CreatedAt: base},
	}, nil)

	logs, err := newSvc(&mockMealStore{}, water).ListWater(context.Background(), "u1", "")

	require.NoError(t, err)
	assert.Equal(t, "new", logs[0].LogID)
}

// --- summary ---

func TestDailySummary(t *testing.T) {
	meals := &mockMealStore{}
	water := &mockWaterStore{}
	meals.On("ListByUser", mock.Anything, "acc1", "2026-01-29").Return([]domain.Meal{
		{Calories: ptr(800), Protein: ptr(40.0), Carbs: ptr(100.0), Fat: ptr(20.0), Fiber: ptr(5.0)},
		{Calories: ptr(1500), Protein: ptr(35.25)},
		{Name: "unknown macros"},
	}, nil)
	water.On("ListByUser", mock.Anything, "acc1", "2026-01-29").Return([]domain.WaterLog{{Glasses: 3}}, nil)
	account := &domain.Account{AccountID: "acc1", Goals: domain.DefaultGoals()}

	sum, err := newSvc(meals, water).DailySummary(context.Background(), account, "2026-01-29")

	require.NoError(t, err)
	assert.Equal(t, 3, sum.MealsCount)
	assert.Equal(t, 2300, sum.TotalCalories)
	assert.InDelta(t, 75.25, sum.TotalProtein, 1e-9)
	assert.InDelta(t, 100.0, sum.TotalCarbs, 1e-9)
	assert.Equal(t, 3, sum.WaterGlasses)
	assert.Equal(t, 2000, sum.CalorieGoal)
	assert.Equal(t, 100.0, sum.CalorieProgress) // capped
	assert.Equal(t, 50.2, sum.ProteinProgress)  // 75.25/150 = 50.166..
	assert.Equal(t, 40.0, sum.CarbsProgress)
	assert.Equal(t, 37.5, sum.WaterProgress)
}

func TestDailySummary_WaterError(t *testing.T) {
	meals := &mockMealStore{}
	water := &mockWaterStore{}
	meals.On("ListByUser", mock.Anything, "acc1", "2026-01-29").Return([]domain.Meal(nil), nil)
	water.On("ListByUser", mock.Anything, "acc1", "2026-01-29").Return(nil, errors.New("boom"))

	_, err := newSvc(meals, water).DailySummary(context.Background(), &domain.Account{AccountID: "acc1"}, "2026-01-29")

	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(500, 0))
	assert.Equal(t, 0.0, Progress(500, -10))
	assert.Equal(t, 33.3, Progress(1, 3))
	assert.Equal(t, 100.0, Progress(3000, 2000))
	assert.Equal(t, 0.0, Progress(0, 2000))
}
