package nutrition

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/id"
	"github.com/lifeguard-api/internal/pkg/paging"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldMealType    = "meal_type"
	fieldCalories    = "calories"
	fieldProtein     = "protein"
	fieldCarbs       = "carbs"
	fieldFat         = "fat"
	fieldFiber       = "fiber"
	fieldServingSize = "serving_size"
	fieldNotes       = "notes"
	fieldMealDate    = "meal_date"
)

type Service interface {
	ListMeals(ctx context.Context, userID string, f domain.MealFilter) ([]domain.Meal, error)
	CreateMeal(ctx context.Context, userID string, req domain.CreateMealRequest) (*domain.Meal, error)
	GetMeal(ctx context.Context, userID, mealID string) (*domain.Meal, error)
	UpdateMeal(ctx context.Context, userID, mealID string, req domain.UpdateMealRequest) (*domain.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID string) error

	ListWater(ctx context.Context, userID, date string) ([]domain.WaterLog, error)
	LogWater(ctx context.Context, userID string, req domain.CreateWaterLogRequest) (*domain.WaterLog, error)
	TodayWater(ctx context.Context, userID string) (int, error)

	// DailySummary totals the meals and water of date against the account's goals.
	DailySummary(ctx context.Context, account *domain.Account, date string) (*domain.DailyNutritionSummary, error)
	// Today returns the current calendar date in the configured location.
	Today() string
}

type mealStore interface {
	Put(ctx context.Context, m *domain.Meal) error
	Get(ctx context.Context, userID, mealID string) (*domain.Meal, error)
	Update(ctx context.Context, userID, mealID string, updates map[string]interface{}) (*domain.Meal, error)
	Delete(ctx context.Context, userID, mealID string) error
	ListByUser(ctx context.Context, userID, date string) ([]domain.Meal, error)
}

type waterStore interface {
	Put(ctx context.Context, l *domain.WaterLog) error
	ListByUser(ctx context.Context, userID, date string) ([]domain.WaterLog, error)
}

type service struct {
	meals mealStore
	water waterStore
	loc   *time.Location
	now   func() time.Time
}

type ServiceDeps struct {
	MealRepo  mealStore
	WaterRepo waterStore
	// Location is the calendar for "today"; defaults to UTC.
	Location *time.Location
	Now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{meals: deps.MealRepo, water: deps.WaterRepo, loc: deps.Location, now: deps.Now}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Today() string {
	return s.now().In(s.loc).Format(domain.DateLayout)
}

func (s *service) ListMeals(ctx context.Context, userID string, f domain.MealFilter) ([]domain.Meal, error) {
	items, err := s.meals.ListByUser(ctx, userID, f.Date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MealDate != items[j].MealDate {
			return items[i].MealDate > items[j].MealDate
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return paging.Window(items, f.Limit, f.Offset), nil
}

func (s *service) CreateMeal(ctx context.Context, userID string, req domain.CreateMealRequest) (*domain.Meal, error) {
	now := s.now().UTC()
	m := &domain.Meal{
		MealID:      id.NewAt(now),
		UserID:      userID,
		Name:        req.Name,
		MealType:    req.MealType,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		Fiber:       req.Fiber,
		ServingSize: req.ServingSize,
		Notes:       req.Notes,
		MealDate:    req.MealDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if m.MealDate == "" {
		m.MealDate = s.Today()
	}
	if err := s.meals.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) GetMeal(ctx context.Context, userID, mealID string) (*domain.Meal, error) {
	return s.meals.Get(ctx, userID, mealID)
}

func (s *service) UpdateMeal(ctx context.Context, userID, mealID string, req domain.UpdateMealRequest) (*domain.Meal, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.MealType != nil {
		updates[fieldMealType] = *req.MealType
	}
	if req.Calories != nil {
		updates[fieldCalories] = *req.Calories
	}
	if req.Protein != nil {
		updates[fieldProtein] = *req.Protein
	}
	if req.Carbs != nil {
		updates[fieldCarbs] = *req.Carbs
	}
	if req.Fat != nil {
		updates[fieldFat] = *req.Fat
	}
	if req.Fiber != nil {
		updates[fieldFiber] = *req.Fiber
	}
	if req.ServingSize != nil {
		updates[fieldServingSize] = *req.ServingSize
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if req.MealDate != nil {
		updates[fieldMealDate] = *req.MealDate
	}
	if len(updates) == 0 {
		return s.meals.Get(ctx, userID, mealID)
	}
	return s.meals.Update(ctx, userID, mealID, updates)
}

func (s *service) DeleteMeal(ctx context.Context, userID, mealID string) error {
	return s.meals.Delete(ctx, userID, mealID)
}

func (s *service) ListWater(ctx context.Context, userID, date string) ([]domain.WaterLog, error) {
	logs, err := s.water.ListByUser(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].LogDate != logs[j].LogDate {
			return logs[i].LogDate > logs[j].LogDate
		}
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	return logs, nil
}

func (s *service) LogWater(ctx context.Context, userID string, req domain.CreateWaterLogRequest) (*domain.WaterLog, error) {
	now := s.now().UTC()
	l := &domain.WaterLog{
		LogID:     id.NewAt(now),
		UserID:    userID,
		Glasses:   req.Glasses,
		LogDate:   req.LogDate,
		CreatedAt: now,
	}
	if l.Glasses <= 0 {
		l.Glasses = 1
	}
	if l.LogDate == "" {
		l.LogDate = s.Today()
	}
	if err := s.water.Put(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) TodayWater(ctx context.Context, userID string) (int, error) {
	return s.waterOn(ctx, userID, s.Today())
}

func (s *service) waterOn(ctx context.Context, userID, date string) (int, error) {
	logs, err := s.water.ListByUser(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range logs {
		total += l.Glasses
	}
	return total, nil
}

func (s *service) DailySummary(ctx context.Context, account *domain.Account, date string) (*domain.DailyNutritionSummary, error) {
	meals, err := s.meals.ListByUser(ctx, account.AccountID, date)
	if err != nil {
		return nil, err
	}
	glasses, err := s.waterOn(ctx, account.AccountID, date)
	if err != nil {
		return nil, err
	}

	sum := &domain.DailyNutritionSummary{
		Date:         date,
		MealsCount:   len(meals),
		WaterGlasses: glasses,
		CalorieGoal:  account.DailyCalorieGoal,
		ProteinGoal:  account.DailyProteinGoal,
		CarbsGoal:    account.DailyCarbsGoal,
		FatGoal:      account.DailyFatGoal,
		WaterGoal:    account.DailyWaterGoal,
	}
	for _, m := range meals {
		sum.TotalCalories += deref(m.Calories)
		sum.TotalProtein += deref(m.Protein)
		sum.TotalCarbs += deref(m.Carbs)
		sum.TotalFat += deref(m.Fat)
		sum.TotalFiber += deref(m.Fiber)
	}
	sum.CalorieProgress = Progress(float64(sum.TotalCalories), sum.CalorieGoal)
	sum.ProteinProgress = Progress(sum.TotalProtein, sum.ProteinGoal)
	sum.CarbsProgress = Progress(sum.TotalCarbs, sum.CarbsGoal)
	sum.FatProgress = Progress(sum.TotalFat, sum.FatGoal)
	sum.WaterProgress = Progress(float64(sum.WaterGlasses), sum.WaterGoal)
	return sum, nil
}

// Progress is current as a percentage of goal, rounded to one decimal and
// capped at 100. A non-positive goal yields 0.
func Progress(current float64, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(math.Round(current/float64(goal)*1000)/10, 100)
}

func deref[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
