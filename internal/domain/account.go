package domain

import "time"

// Default daily goals assigned to a newly provisioned account.
const (
	DefaultCalorieGoal = 2000
	DefaultProteinGoal = 150 // grams
	DefaultCarbsGoal   = 250 // grams
	DefaultFatGoal     = 65  // grams
	DefaultWaterGoal   = 8   // glasses of 250 ml
)

// TelegramProfile is the user object embedded in verified Telegram init data
// or carried by a Bot API update.
type TelegramProfile struct {
	ID           int64   `json:"id"`
	Username     *string `json:"username,omitempty"`
	FirstName    string  `json:"first_name"`
	LastName     *string `json:"last_name,omitempty"`
	LanguageCode string  `json:"language_code,omitempty"`
	IsPremium    bool    `json:"is_premium,omitempty"`
	PhotoURL     string  `json:"photo_url,omitempty"`
}

// Goals are the per-account daily nutrition targets.
type Goals struct {
	DailyCalorieGoal int `json:"daily_calorie_goal" dynamodbav:"daily_calorie_goal" validate:"gte=0"`
	DailyProteinGoal int `json:"daily_protein_goal" dynamodbav:"daily_protein_goal" validate:"gte=0"`
	DailyCarbsGoal   int `json:"daily_carbs_goal" dynamodbav:"daily_carbs_goal" validate:"gte=0"`
	DailyFatGoal     int `json:"daily_fat_goal" dynamodbav:"daily_fat_goal" validate:"gte=0"`
	DailyWaterGoal   int `json:"daily_water_goal" dynamodbav:"daily_water_goal" validate:"gte=0"`
}

// DefaultGoals returns the goals a new account starts with.
func DefaultGoals() Goals {
	return Goals{
		DailyCalorieGoal: DefaultCalorieGoal,
		DailyProteinGoal: DefaultProteinGoal,
		DailyCarbsGoal:   DefaultCarbsGoal,
		DailyFatGoal:     DefaultFatGoal,
		DailyWaterGoal:   DefaultWaterGoal,
	}
}

// Account is the durable identity record. TelegramID is unique across accounts.
type Account struct {
	AccountID  string  `json:"id" dynamodbav:"account_id"`
	TelegramID int64   `json:"telegram_id" dynamodbav:"telegram_id"`
	Username   *string `json:"username" dynamodbav:"username"`
	FirstName  string  `json:"first_name" dynamodbav:"first_name"`
	LastName   *string `json:"last_name" dynamodbav:"last_name"`
	Goals
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type UpdateAccountRequest struct {
	FirstName        *string `json:"first_name" validate:"omitempty,max=255"`
	LastName         *string `json:"last_name" validate:"omitempty,max=255"`
	DailyCalorieGoal *int    `json:"daily_calorie_goal" validate:"omitempty,gte=0"`
	DailyProteinGoal *int    `json:"daily_protein_goal" validate:"omitempty,gte=0"`
	DailyCarbsGoal   *int    `json:"daily_carbs_goal" validate:"omitempty,gte=0"`
	DailyFatGoal     *int    `json:"daily_fat_goal" validate:"omitempty,gte=0"`
	DailyWaterGoal   *int    `json:"daily_water_goal" validate:"omitempty,gte=0"`
}

// AccountExport is the JSON snapshot written by a data export.
type AccountExport struct {
	ExportedAt    time.Time      `json:"exported_at"`
	Account       Account        `json:"account"`
	Workouts      []Workout      `json:"workouts"`
	Meals         []Meal         `json:"meals"`
	WaterLogs     []WaterLog     `json:"water_logs"`
	ShoppingItems []ShoppingItem `json:"shopping_items"`
}

// ExportResult tells the client where an export was written.
type ExportResult struct {
	Location      string    `json:"location"`
	DownloadURL   string    `json:"download_url,omitempty"`
	ExportedAt    time.Time `json:"exported_at"`
	Workouts      int       `json:"workouts"`
	Meals         int       `json:"meals"`
	WaterLogs     int       `json:"water_logs"`
	ShoppingItems int       `json:"shopping_items"`
}
