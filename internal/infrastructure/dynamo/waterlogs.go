package dynamo

import (
	"context"

	"github.com/lifeguard-api/internal/domain"
)

type WaterLogRepo struct {
	t userTable[domain.WaterLog]
}

func NewWaterLogRepo(client API, tableName string) *WaterLogRepo {
	return &WaterLogRepo{t: userTable[domain.WaterLog]{client: client, name: tableName, sortKey: attrLogID, entity: "water log"}}
}

func (r *WaterLogRepo) Put(ctx context.Context, l *domain.WaterLog) error {
	return r.t.put(ctx, l)
}

// ListByUser returns the user's water logs, restricted to one day when date is set.
func (r *WaterLogRepo) ListByUser(ctx context.Context, userID, date string) ([]domain.WaterLog, error) {
	return r.t.list(ctx, userID, dateRange(attrLogDate, date, date))
}
