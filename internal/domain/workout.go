package domain

import "time"

const (
	WorkoutStrength    = "strength"
	WorkoutCardio      = "cardio"
	WorkoutFlexibility = "flexibility"
	WorkoutHIIT        = "hiit"
	WorkoutSports      = "sports"
	WorkoutOther       = "other"
)

// DateLayout is the calendar-date format used for all *_date fields.
const DateLayout = "2006-01-02"

type Workout struct {
	WorkoutID       string     `json:"id" dynamodbav:"workout_id"`
	UserID          string     `json:"user_id" dynamodbav:"user_id"`
	Name            string     `json:"name" dynamodbav:"name"`
	WorkoutType     string     `json:"workout_type" dynamodbav:"workout_type"`
	DurationMinutes int        `json:"duration_minutes" dynamodbav:"duration_minutes"`
	CaloriesBurned  *int       `json:"calories_burned" dynamodbav:"calories_burned"`
	Notes           *string    `json:"notes" dynamodbav:"notes"`
	WorkoutDate     string     `json:"workout_date" dynamodbav:"workout_date"`
	Exercises       []Exercise `json:"exercises" dynamodbav:"exercises"`
	CreatedAt       time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

type Exercise struct {
	ExerciseID      string    `json:"id" dynamodbav:"exercise_id"`
	WorkoutID       string    `json:"workout_id" dynamodbav:"workout_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Sets            *int      `json:"sets" dynamodbav:"sets"`
	Reps            *int      `json:"reps" dynamodbav:"reps"`
	Weight          *float64  `json:"weight" dynamodbav:"weight"` // kg
	DurationSeconds *int      `json:"duration_seconds" dynamodbav:"duration_seconds"`
	DistanceMeters  *float64  `json:"distance_meters" dynamodbav:"distance_meters"`
	Notes           *string   `json:"notes" dynamodbav:"notes"`
	Order           int       `json:"order" dynamodbav:"order"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateExerciseRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Sets            *int     `json:"sets" validate:"omitempty,gte=0"`
	Reps            *int     `json:"reps" validate:"omitempty,gte=0"`
	Weight          *float64 `json:"weight" validate:"omitempty,gte=0"`
	DurationSeconds *int     `json:"duration_seconds" validate:"omitempty,gte=0"`
	DistanceMeters  *float64 `json:"distance_meters" validate:"omitempty,gte=0"`
	Notes           *string  `json:"notes"`
	Order           int      `json:"order" validate:"gte=0"`
}

type UpdateExerciseRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Sets            *int     `json:"sets" validate:"omitempty,gte=0"`
	Reps            *int     `json:"reps" validate:"omitempty,gte=0"`
	Weight          *float64 `json:"weight" validate:"omitempty,gte=0"`
	DurationSeconds *int     `json:"duration_seconds" validate:"omitempty,gte=0"`
	DistanceMeters  *float64 `json:"distance_meters" validate:"omitempty,gte=0"`
	Notes           *string  `json:"notes"`
	Order           *int     `json:"order" validate:"omitempty,gte=0"`
}

type CreateWorkoutRequest struct {
	Name            string                  `json:"name" validate:"required,max=255"`
	WorkoutType     string                  `json:"workout_type" validate:"omitempty,oneof=strength cardio flexibility hiit sports other"`
	DurationMinutes int                     `json:"duration_minutes" validate:"gte=0"`
	CaloriesBurned  *int                    `json:"calories_burned" validate:"omitempty,gte=0"`
	Notes           *string                 `json:"notes"`
	WorkoutDate     string                  `json:"workout_date" validate:"omitempty,datetime=2006-01-02"`
	Exercises       []CreateExerciseRequest `json:"exercises" validate:"dive"`
}

type UpdateWorkoutRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	WorkoutType     *string `json:"workout_type" validate:"omitempty,oneof=strength cardio flexibility hiit sports other"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
	CaloriesBurned  *int    `json:"calories_burned" validate:"omitempty,gte=0"`
	Notes           *string `json:"notes"`
	WorkoutDate     *string `json:"workout_date" validate:"omitempty,datetime=2006-01-02"`
}

// WorkoutFilter narrows a workout listing. Dates are inclusive, empty means unbounded.
type WorkoutFilter struct {
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

type WorkoutSummary struct {
	WeekStart            string         `json:"week_start"`
	WeekEnd              string         `json:"week_end"`
	TotalWorkouts        int            `json:"total_workouts"`
	TotalDurationMinutes int            `json:"total_duration_minutes"`
	TotalCaloriesBurned  int            `json:"total_calories_burned"`
	WorkoutsByType       map[string]int `json:"workouts_by_type"`
}
