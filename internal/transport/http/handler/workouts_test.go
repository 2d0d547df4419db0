package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lifeguard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWorkoutSvc struct{ mock.Mock }

func (m *mockWorkoutSvc) List(ctx context.Context, userID string, f domain.WorkoutFilter) ([]domain.Workout, error) {
	args := m.Called(ctx, userID, f)
	w, _ := args.Get(0).([]domain.Workout)
	return w, args.Error(1)
}

func (m *mockWorkoutSvc) Create(ctx context.Context, userID string, req domain.CreateWorkoutRequest) (*domain.Workout, error) {
	args := m.Called(ctx, userID, req)
	if w, _ := args.Get(0).(*domain.Workout); w != nil {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutSvc) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	args := m.Called(ctx, userID, workoutID)
	if w, _ := args.Get(0).(*domain.Workout); w != nil {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutSvc) Update(ctx context.Context, userID, workoutID string, req domain.UpdateWorkoutRequest) (*domain.Workout, error) {
	args := m.Called(ctx, userID, workoutID, req)
	if w, _ := args.Get(0).(*domain.Workout); w != nil {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutSvc) Delete(ctx context.Context, userID, workoutID string) error {
	return m.Called(ctx, userID, workoutID).Error(0)
}

func (m *mockWorkoutSvc) AddExercise(ctx context.Context, userID, workoutID string, req domain.CreateExerciseRequest) (*domain.Exercise, error) {
	args := m.Called(ctx, userID, workoutID, req)
	if e, _ := args.Get(0).(*domain.Exercise); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutSvc) UpdateExercise(ctx context.Context, userID, workoutID, exerciseID string, req domain.UpdateExerciseRequest) (*domain.Exercise, error) {
	args := m.Called(ctx, userID, workoutID, exerciseID, req)
	if e, _ := args.Get(0).(*domain.Exercise); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutSvc) DeleteExercise(ctx context.Context, userID, workoutID, exerciseID string) error {
	return m.Called(ctx, userID, workoutID, exerciseID).Error(0)
}

func (m *mockWorkoutSvc) WeeklySummary(ctx context.Context, userID string) (*domain.WorkoutSummary, error) {
	args := m.Called(ctx, userID)
	if s, _ := args.Get(0).(*domain.WorkoutSummary); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWorkoutSvc) ListOn(ctx context.Context, userID, day string) ([]domain.Workout, error) {
	args := m.Called(ctx, userID, day)
	w, _ := args.Get(0).([]domain.Workout)
	return w, args.Error(1)
}

// withChiParams sets several route params at once; kv alternates key, value.
func withChiParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testWorkout() *domain.Workout {
	return &domain.Workout{
		WorkoutID:   "w1",
		UserID:      "acc1",
		Name:        "Leg day",
		WorkoutType: domain.WorkoutStrength,
		WorkoutDate: "2026-01-29",
		Exercises:   []domain.Exercise{{ExerciseID: "e1", WorkoutID: "w1", Name: "Squat"}},
	}
}

func TestListWorkouts_RejectsBadDate(t *testing.T) {
	h := NewWorkoutHandler(nil)
	rr := httptest.NewRecorder()
	h.List(rr, authed(http.MethodGet, "/api/workouts?start_date=01/02/2026", nil, testAccount()))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestListWorkouts_RejectsInvertedRange(t *testing.T) {
	h := NewWorkoutHandler(nil)
	rr := httptest.NewRecorder()
	h.List(rr, authed(http.MethodGet, "/api/workouts?start_date=2026-02-01&end_date=2026-01-01", nil, testAccount()))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestListWorkouts_PassesFilter(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("List", mock.Anything, "acc1", domain.WorkoutFilter{StartDate: "2026-01-01", EndDate: "2026-01-01", Limit: 5}).
		Return([]domain.Workout{*testWorkout()}, nil)
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, authed(http.MethodGet, "/api/workouts?start_date=2026-01-01&end_date=2026-01-01&limit=5", nil, testAccount()))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []domain.Workout
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].WorkoutID)
	svc.AssertExpectations(t)
}

func TestCreateWorkout_HappyPath(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("Create", mock.Anything, "acc1", mock.MatchedBy(func(req domain.CreateWorkoutRequest) bool {
		return req.Name == "Leg day" && len(req.Exercises) == 1 && req.Exercises[0].Name == "Squat"
	})).Return(testWorkout(), nil)
	h := NewWorkoutHandler(svc)

	body := []byte(`{"name":"Leg day","workout_type":"strength","exercises":[{"name":"Squat"}]}`)
	rr := httptest.NewRecorder()
	h.Create(rr, authed(http.MethodPost, "/api/workouts", body, testAccount()))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got domain.Workout
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "w1", got.WorkoutID)
	svc.AssertExpectations(t)
}

func TestCreateWorkout_ValidationFailure(t *testing.T) {
	svc := &mockWorkoutSvc{}
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, authed(http.MethodPost, "/api/workouts", []byte(`{"name":"x","workout_type":"yoga"}`), testAccount()))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetWorkout_HappyPath(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("Get", mock.Anything, "acc1", "w1").Return(testWorkout(), nil)
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.Get(rr, withChiParam(authed(http.MethodGet, "/api/workouts/w1", nil, testAccount()), "id", "w1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got domain.Workout
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "Leg day", got.Name)
	require.Len(t, got.Exercises, 1)
}

func TestGetWorkout_OtherUsersWorkoutIsNotFound(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("Get", mock.Anything, "acc1", "w-other").Return(nil, fmt.Errorf("workout w-other: %w", domain.ErrNotFound))
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.Get(rr, withChiParam(authed(http.MethodGet, "/api/workouts/w-other", nil, testAccount()), "id", "w-other"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())
}

func TestUpdateWorkout_HappyPath(t *testing.T) {
	updated := testWorkout()
	updated.DurationMinutes = 50
	svc := &mockWorkoutSvc{}
	svc.On("Update", mock.Anything, "acc1", "w1", mock.MatchedBy(func(req domain.UpdateWorkoutRequest) bool {
		return req.DurationMinutes != nil && *req.DurationMinutes == 50 && req.Name == nil
	})).Return(updated, nil)
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.Update(rr, withChiParam(authed(http.MethodPatch, "/api/workouts/w1", []byte(`{"duration_minutes":50}`), testAccount()), "id", "w1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got domain.Workout
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, 50, got.DurationMinutes)
	svc.AssertExpectations(t)
}

func TestDeleteWorkout_NoContent(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("Delete", mock.Anything, "acc1", "w1").Return(nil)
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withChiParam(authed(http.MethodDelete, "/api/workouts/w1", nil, testAccount()), "id", "w1"))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestAddExercise_HappyPath(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("AddExercise", mock.Anything, "acc1", "w1", mock.MatchedBy(func(req domain.CreateExerciseRequest) bool {
		return req.Name == "Lunge" && req.Order == 2
	})).Return(&domain.Exercise{ExerciseID: "e2", WorkoutID: "w1", Name: "Lunge", Order: 2}, nil)
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.AddExercise(rr, withChiParam(authed(http.MethodPost, "/api/workouts/w1/exercises", []byte(`{"name":"Lunge","order":2}`), testAccount()), "id", "w1"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got domain.Exercise
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "e2", got.ExerciseID)
	svc.AssertExpectations(t)
}

func TestUpdateExercise_HappyPath(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("UpdateExercise", mock.Anything, "acc1", "w1", "e1", mock.MatchedBy(func(req domain.UpdateExerciseRequest) bool {
		return req.Reps != nil && *req.Reps == 8
	})).Return(&domain.Exercise{ExerciseID: "e1", WorkoutID: "w1", Name: "Squat"}, nil)
	h := NewWorkoutHandler(svc)

	req := authed(http.MethodPatch, "/api/workouts/w1/exercises/e1", []byte(`{"reps":8}`), testAccount())
	rr := httptest.NewRecorder()
	h.UpdateExercise(rr, withChiParams(req, "id", "w1", "exerciseID", "e1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUpdateExercise_ConcurrentEditIsConflict(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("UpdateExercise", mock.Anything, "acc1", "w1", "e1", mock.Anything).
		Return(nil, fmt.Errorf("workout w1 changed since read: %w", domain.ErrConflict))
	h := NewWorkoutHandler(svc)

	req := authed(http.MethodPatch, "/api/workouts/w1/exercises/e1", []byte(`{"reps":8}`), testAccount())
	rr := httptest.NewRecorder()
	h.UpdateExercise(rr, withChiParams(req, "id", "w1", "exerciseID", "e1"))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteExercise_NoContent(t *testing.T) {
	svc := &mockWorkoutSvc{}
	svc.On("DeleteExercise", mock.Anything, "acc1", "w1", "e1").Return(nil)
	h := NewWorkoutHandler(svc)

	rr := httptest.NewRecorder()
	h.DeleteExercise(rr, withChiParams(authed(http.MethodDelete, "/api/workouts/w1/exercises/e1", nil, testAccount()), "id", "w1", "exerciseID", "e1"))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}
