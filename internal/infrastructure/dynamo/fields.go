package dynamo

// DynamoDB attribute and index names shared across repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	attrTelegramID = "telegram_id"
	attrUserID     = "user_id"
	attrWorkoutID  = "workout_id"
	attrMealID     = "meal_id"
	attrLogID      = "log_id"
	attrItemID     = "item_id"
	attrUpdatedAt  = "updated_at"

	attrWorkoutDate = "workout_date"
	attrMealDate    = "meal_date"
	attrLogDate     = "log_date"
	attrCategory    = "category"
	attrIsPurchased = "is_purchased"
)

// maxBatchWrite is the BatchWriteItem request limit.
const maxBatchWrite = 25
