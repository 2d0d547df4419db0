package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lifeguard-api/internal/domain"
)

type ShoppingRepo struct {
	t userTable[domain.ShoppingItem]
}

func NewShoppingRepo(client API, tableName string) *ShoppingRepo {
	return &ShoppingRepo{t: userTable[domain.ShoppingItem]{client: client, name: tableName, sortKey: attrItemID, entity: "shopping item"}}
}

func (r *ShoppingRepo) Put(ctx context.Context, item *domain.ShoppingItem) error {
	return r.t.put(ctx, item)
}

// PutMany writes items in batches of 25.
func (r *ShoppingRepo) PutMany(ctx context.Context, items []domain.ShoppingItem) error {
	return r.t.batchPut(ctx, items)
}

func (r *ShoppingRepo) Get(ctx context.Context, userID, itemID string) (*domain.ShoppingItem, error) {
	return r.t.get(ctx, userID, itemID)
}

func (r *ShoppingRepo) Update(ctx context.Context, userID, itemID string, updates map[string]interface{}) (*domain.ShoppingItem, error) {
	return r.t.update(ctx, userID, itemID, updates)
}

func (r *ShoppingRepo) Delete(ctx context.Context, userID, itemID string) error {
	return r.t.delete(ctx, userID, itemID)
}

func (r *ShoppingRepo) DeleteMany(ctx context.Context, userID string, itemIDs []string) error {
	return r.t.batchDelete(ctx, userID, itemIDs)
}

// ListByUser returns the user's items matching f; order is unspecified.
func (r *ShoppingRepo) ListByUser(ctx context.Context, userID string, f domain.ShoppingFilter) ([]domain.ShoppingItem, error) {
	var q filter
	if f.Category != nil {
		q.and("#cat = :cat", map[string]string{"#cat": attrCategory},
			map[string]types.AttributeValue{":cat": strVal(*f.Category)})
	}
	if f.Purchased != nil {
		q.and("#pur = :pur", map[string]string{"#pur": attrIsPurchased},
			map[string]types.AttributeValue{":pur": &types.AttributeValueMemberBOOL{Value: *f.Purchased}})
	}
	return r.t.list(ctx, userID, q)
}
