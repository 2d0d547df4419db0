package dynamo

import (
	"context"
	"time"

	"github.com/lifeguard-api/internal/domain"
)

// WorkoutRepo stores workouts with their exercises embedded in the item.
type WorkoutRepo struct {
	t userTable[domain.Workout]
}

func NewWorkoutRepo(client API, tableName string) *WorkoutRepo {
	return &WorkoutRepo{t: userTable[domain.Workout]{client: client, name: tableName, sortKey: attrWorkoutID, entity: "workout"}}
}

func (r *WorkoutRepo) Put(ctx context.Context, w *domain.Workout) error {
	return r.t.put(ctx, w)
}

func (r *WorkoutRepo) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	return r.t.get(ctx, userID, workoutID)
}

func (r *WorkoutRepo) Update(ctx context.Context, userID, workoutID string, updates map[string]interface{}) (*domain.Workout, error) {
	return r.t.update(ctx, userID, workoutID, updates)
}

// UpdateIfUnchanged applies updates only while the stored workout still
// carries updated_at == readAt.
func (r *WorkoutRepo) UpdateIfUnchanged(ctx context.Context, userID, workoutID string, readAt time.Time, updates map[string]interface{}) (*domain.Workout, error) {
	return r.t.updateUnchanged(ctx, userID, workoutID, readAt, updates)
}

func (r *WorkoutRepo) Delete(ctx context.Context, userID, workoutID string) error {
	return r.t.delete(ctx, userID, workoutID)
}

// ListByUser returns the user's workouts dated within [startDate, endDate].
// Empty bounds are open; order is unspecified.
func (r *WorkoutRepo) ListByUser(ctx context.Context, userID, startDate, endDate string) ([]domain.Workout, error) {
	return r.t.list(ctx, userID, dateRange(attrWorkoutDate, startDate, endDate))
}
