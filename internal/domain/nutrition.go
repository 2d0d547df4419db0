package domain

import "time"

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

type Meal struct {
	MealID      string    `json:"id" dynamodbav:"meal_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	MealType    string    `json:"meal_type" dynamodbav:"meal_type"`
	Calories    *int      `json:"calories" dynamodbav:"calories"`
	Protein     *float64  `json:"protein" dynamodbav:"protein"` // grams
	Carbs       *float64  `json:"carbs" dynamodbav:"carbs"`     // grams
	Fat         *float64  `json:"fat" dynamodbav:"fat"`         // grams
	Fiber       *float64  `json:"fiber" dynamodbav:"fiber"`     // grams
	ServingSize *string   `json:"serving_size" dynamodbav:"serving_size"`
	Notes       *string   `json:"notes" dynamodbav:"notes"`
	MealDate    string    `json:"meal_date" dynamodbav:"meal_date"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateMealRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	MealType    string   `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Calories    *int     `json:"calories" validate:"omitempty,gte=0"`
	Protein     *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs       *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat         *float64 `json:"fat" validate:"omitempty,gte=0"`
	Fiber       *float64 `json:"fiber" validate:"omitempty,gte=0"`
	ServingSize *string  `json:"serving_size" validate:"omitempty,max=100"`
	Notes       *string  `json:"notes"`
	MealDate    string   `json:"meal_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateMealRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	MealType    *string  `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Calories    *int     `json:"calories" validate:"omitempty,gte=0"`
	Protein     *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs       *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat         *float64 `json:"fat" validate:"omitempty,gte=0"`
	Fiber       *float64 `json:"fiber" validate:"omitempty,gte=0"`
	ServingSize *string  `json:"serving_size" validate:"omitempty,max=100"`
	Notes       *string  `json:"notes"`
	MealDate    *string  `json:"meal_date" validate:"omitempty,datetime=2006-01-02"`
}

// MealFilter narrows a meal listing. An empty Date lists every day.
type MealFilter struct {
	Date   string
	Limit  int
	Offset int
}

// WaterLog records glasses of water (250 ml each) drunk on a day.
type WaterLog struct {
	LogID     string    `json:"id" dynamodbav:"log_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Glasses   int       `json:"glasses" dynamodbav:"glasses"`
	LogDate   string    `json:"log_date" dynamodbav:"log_date"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateWaterLogRequest struct {
	Glasses int    `json:"glasses" validate:"gte=0,lte=100"`
	LogDate string `json:"log_date" validate:"omitempty,datetime=2006-01-02"`
}

type DailyNutritionSummary struct {
	Date          string  `json:"date"`
	TotalCalories int     `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
	TotalFiber    float64 `json:"total_fiber"`
	WaterGlasses  int     `json:"water_glasses"`
	MealsCount    int     `json:"meals_count"`

	CalorieGoal int `json:"calorie_goal"`
	ProteinGoal int `json:"protein_goal"`
	CarbsGoal   int `json:"carbs_goal"`
	FatGoal     int `json:"fat_goal"`
	WaterGoal   int `json:"water_goal"`

	CalorieProgress float64 `json:"calorie_progress"`
	ProteinProgress float64 `json:"protein_progress"`
	CarbsProgress   float64 `json:"carbs_progress"`
	FatProgress     float64 `json:"fat_progress"`
	WaterProgress   float64 `json:"water_progress"`
}
