package workout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/id"
	"github.com/lifeguard-api/internal/pkg/paging"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName            = "name"
	fieldWorkoutType     = "workout_type"
	fieldDurationMinutes = "duration_minutes"
	fieldCaloriesBurned  = "calories_burned"
	fieldNotes           = "notes"
	fieldWorkoutDate     = "workout_date"
	fieldExercises       = "exercises"
)

// maxExerciseAttempts bounds read-modify-write cycles on the exercise list.
const maxExerciseAttempts = 3

type Service interface {
	List(ctx context.Context, userID string, f domain.WorkoutFilter) ([]domain.Workout, error)
	Create(ctx context.Context, userID string, req domain.CreateWorkoutRequest) (*domain.Workout, error)
	Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	Update(ctx context.Context, userID, workoutID string, req domain.UpdateWorkoutRequest) (*domain.Workout, error)
	Delete(ctx context.Context, userID, workoutID string) error
	AddExercise(ctx context.Context, userID, workoutID string, req domain.CreateExerciseRequest) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID, workoutID, exerciseID string, req domain.UpdateExerciseRequest) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, workoutID, exerciseID string) error
	// WeeklySummary aggregates workouts from Monday of the current week through today.
	WeeklySummary(ctx context.Context, userID string) (*domain.WorkoutSummary, error)
	// ListOn returns every workout dated day, in any order.
	ListOn(ctx context.Context, userID, day string) ([]domain.Workout, error)
}

type workoutStore interface {
	Put(ctx context.Context, w *domain.Workout) error
	Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	Update(ctx context.Context, userID, workoutID string, updates map[string]interface{}) (*domain.Workout, error)
	UpdateIfUnchanged(ctx context.Context, userID, workoutID string, readAt time.Time, updates map[string]interface{}) (*domain.Workout, error)
	Delete(ctx context.Context, userID, workoutID string) error
	ListByUser(ctx context.Context, userID, startDate, endDate string) ([]domain.Workout, error)
}

type service struct {
	repo workoutStore
	loc  *time.Location
	now  func() time.Time
}

type ServiceDeps struct {
	WorkoutRepo workoutStore
	// Location is the calendar for "today"; defaults to UTC.
	Location *time.Location
	Now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{repo: deps.WorkoutRepo, loc: deps.Location, now: deps.Now}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

func (s *service) List(ctx context.Context, userID string, f domain.WorkoutFilter) ([]domain.Workout, error) {
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return []domain.Workout{}, nil
	}
	items, err := s.repo.ListByUser(ctx, userID, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].WorkoutDate != items[j].WorkoutDate {
			return items[i].WorkoutDate > items[j].WorkoutDate
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return paging.Window(items, f.Limit, f.Offset), nil
}

func (s *service) ListOn(ctx context.Context, userID, day string) ([]domain.Workout, error) {
	return s.repo.ListByUser(ctx, userID, day, day)
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateWorkoutRequest) (*domain.Workout, error) {
	now := s.now().UTC()
	w := &domain.Workout{
		WorkoutID:       id.NewAt(now),
		UserID:          userID,
		Name:            req.Name,
		WorkoutType:     req.WorkoutType,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           req.Notes,
		WorkoutDate:     req.WorkoutDate,
		Exercises:       make([]domain.Exercise, 0, len(req.Exercises)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if w.WorkoutType == "" {
		w.WorkoutType = domain.WorkoutOther
	}
	if w.WorkoutDate == "" {
		w.WorkoutDate = s.today().Format(domain.DateLayout)
	}
	for i, er := range req.Exercises {
		e := newExercise(w.WorkoutID, er, now)
		if e.Order == 0 {
			e.Order = i
		}
		w.Exercises = append(w.Exercises, e)
	}
	sortExercises(w.Exercises)
	if err := s.repo.Put(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	return s.repo.Get(ctx, userID, workoutID)
}

func (s *service) Update(ctx context.Context, userID, workoutID string, req domain.UpdateWorkoutRequest) (*domain.Workout, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.WorkoutType != nil {
		updates[fieldWorkoutType] = *req.WorkoutType
	}
	if req.DurationMinutes != nil {
		updates[fieldDurationMinutes] = *req.DurationMinutes
	}
	if req.CaloriesBurned != nil {
		updates[fieldCaloriesBurned] = *req.CaloriesBurned
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if req.WorkoutDate != nil {
		updates[fieldWorkoutDate] = *req.WorkoutDate
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID, workoutID)
	}
	return s.repo.Update(ctx, userID, workoutID, updates)
}

func (s *service) Delete(ctx context.Context, userID, workoutID string) error {
	return s.repo.Delete(ctx, userID, workoutID)
}

func (s *service) AddExercise(ctx context.Context, userID, workoutID string, req domain.CreateExerciseRequest) (*domain.Exercise, error) {
	var added domain.Exercise
	err := s.editExercises(ctx, userID, workoutID, func(w *domain.Workout) ([]domain.Exercise, error) {
		added = newExercise(w.WorkoutID, req, s.now().UTC())
		exercises := append(w.Exercises, added)
		sortExercises(exercises)
		return exercises, nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *service) UpdateExercise(ctx context.Context, userID, workoutID, exerciseID string, req domain.UpdateExerciseRequest) (*domain.Exercise, error) {
	var updated domain.Exercise
	err := s.editExercises(ctx, userID, workoutID, func(w *domain.Workout) ([]domain.Exercise, error) {
		i := indexOfExercise(w.Exercises, exerciseID)
		if i < 0 {
			return nil, fmt.Errorf("exercise %s: %w", exerciseID, domain.ErrNotFound)
		}
		e := w.Exercises[i]
		if req.Name != nil {
			e.Name = *req.Name
		}
		if req.Sets != nil {
			e.Sets = req.Sets
		}
		if req.Reps != nil {
			e.Reps = req.Reps
		}
		if req.Weight != nil {
			e.Weight = req.Weight
		}
		if req.DurationSeconds != nil {
			e.DurationSeconds = req.DurationSeconds
		}
		if req.DistanceMeters != nil {
			e.DistanceMeters = req.DistanceMeters
		}
		if req.Notes != nil {
			e.Notes = req.Notes
		}
		if req.Order != nil {
			e.Order = *req.Order
		}
		w.Exercises[i] = e
		sortExercises(w.Exercises)
		updated = e
		return w.Exercises, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *service) DeleteExercise(ctx context.Context, userID, workoutID, exerciseID string) error {
	return s.editExercises(ctx, userID, workoutID, func(w *domain.Workout) ([]domain.Exercise, error) {
		i := indexOfExercise(w.Exercises, exerciseID)
		if i < 0 {
			return nil, fmt.Errorf("exercise %s: %w", exerciseID, domain.ErrNotFound)
		}
		return append(w.Exercises[:i:i], w.Exercises[i+1:]...), nil
	})
}

func (s *service) WeeklySummary(ctx context.Context, userID string) (*domain.WorkoutSummary, error) {
	today := s.today()
	// time.Weekday counts from Sunday; shift so Monday is day 0.
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	start, end := weekStart.Format(domain.DateLayout), today.Format(domain.DateLayout)

	items, err := s.repo.ListByUser(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	sum := &domain.WorkoutSummary{
		WeekStart:      start,
		WeekEnd:        end,
		TotalWorkouts:  len(items),
		WorkoutsByType: map[string]int{},
	}
	for _, w := range items {
		sum.WorkoutsByType[w.WorkoutType]++
		sum.TotalDurationMinutes += w.DurationMinutes
		if w.CaloriesBurned != nil {
			sum.TotalCaloriesBurned += *w.CaloriesBurned
		}
	}
	return sum, nil
}

// editExercises reads the workout, lets edit derive the new exercise list
// and writes it back only if the workout is still at the version read.
// A concurrent write restarts the cycle; after maxExerciseAttempts the
// conflict is returned.
func (s *service) editExercises(ctx context.Context, userID, workoutID string, edit func(w *domain.Workout) ([]domain.Exercise, error)) error {
	var conflict error
	for attempt := 0; attempt < maxExerciseAttempts; attempt++ {
		w, err := s.repo.Get(ctx, userID, workoutID)
		if err != nil {
			return err
		}
		exercises, err := edit(w)
		if err != nil {
			return err
		}
		_, err = s.repo.UpdateIfUnchanged(ctx, userID, workoutID, w.UpdatedAt, map[string]interface{}{fieldExercises: exercises})
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		conflict = err
	}
	return conflict
}

func newExercise(workoutID string, req domain.CreateExerciseRequest, now time.Time) domain.Exercise {
	return domain.Exercise{
		ExerciseID:      id.NewAt(now),
		WorkoutID:       workoutID,
		Name:            req.Name,
		Sets:            req.Sets,
		Reps:            req.Reps,
		Weight:          req.Weight,
		DurationSeconds: req.DurationSeconds,
		DistanceMeters:  req.DistanceMeters,
		Notes:           req.Notes,
		Order:           req.Order,
		CreatedAt:       now,
	}
}

func indexOfExercise(exercises []domain.Exercise, exerciseID string) int {
	for i := range exercises {
		if exercises[i].ExerciseID == exerciseID {
			return i
		}
	}
	return -1
}

func sortExercises(exercises []domain.Exercise) {
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].Order < exercises[j].Order
	})
}
