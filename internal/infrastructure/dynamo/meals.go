package dynamo

import (
	"context"

	"github.com/lifeguard-api/internal/domain"
)

type MealRepo struct {
	t userTable[domain.Meal]
}

func NewMealRepo(client API, tableName string) *MealRepo {
	return &MealRepo{t: userTable[domain.Meal]{client: client, name: tableName, sortKey: attrMealID, entity: "meal"}}
}

func (r *MealRepo) Put(ctx context.Context, m *domain.Meal) error {
	return r.t.put(ctx, m)
}

func (r *MealRepo) Get(ctx context.Context, userID, mealID string) (*domain.Meal, error) {
	return r.t.get(ctx, userID, mealID)
}

func (r *MealRepo) Update(ctx context.Context, userID, mealID string, updates map[string]interface{}) (*domain.Meal, error) {
	return r.t.update(ctx, userID, mealID, updates)
}

func (r *MealRepo) Delete(ctx context.Context, userID, mealID string) error {
	return r.t.delete(ctx, userID, mealID)
}

// ListByUser returns the user's meals, restricted to one day when date is set.
func (r *MealRepo) ListByUser(ctx context.Context, userID, date string) ([]domain.Meal, error) {
	return r.t.list(ctx, userID, dateRange(attrMealDate, date, date))
}
