package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lifeguard-api/internal/domain"
)

// maxBatchAttempts bounds retries of UnprocessedItems.
const maxBatchAttempts = 5

// userTable holds items of type T partitioned by user_id and sorted by an
// item id. Reads and writes are always scoped to one owner, so an item id
// belonging to another user is indistinguishable from a missing one.
type userTable[T any] struct {
	client  API
	name    string
	sortKey string
	entity  string
}

func (t userTable[T]) key(userID, id string) map[string]types.AttributeValue {
	return compositeKey(attrUserID, userID, t.sortKey, id)
}

func (t userTable[T]) put(ctx context.Context, item *T) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", t.entity, err)
	}
	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", t.entity, err)
	}
	return nil
}

func (t userTable[T]) get(ctx context.Context, userID, id string) (*T, error) {
	out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       t.key(userID, id),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.entity, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%s %s: %w", t.entity, id, domain.ErrNotFound)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", t.entity, err)
	}
	return &v, nil
}

// update applies a partial update to an existing item and returns the new
// version. updated_at is stamped unless the caller supplied it.
func (t userTable[T]) update(ctx context.Context, userID, id string, updates map[string]interface{}) (*T, error) {
	return t.updateWhere(ctx, userID, id, updates, nil)
}

// updateUnchanged is update guarded by the stored updated_at still equal to
// readAt. A newer write yields ErrConflict; a missing item ErrNotFound.
func (t userTable[T]) updateUnchanged(ctx context.Context, userID, id string, readAt time.Time, updates map[string]interface{}) (*T, error) {
	return t.updateWhere(ctx, userID, id, updates, &readAt)
}

func (t userTable[T]) updateWhere(ctx context.Context, userID, id string, updates map[string]interface{}, readAt *time.Time) (*T, error) {
	if _, ok := updates[attrUpdatedAt]; !ok {
		updates[attrUpdatedAt] = time.Now().UTC()
	}
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	ue.Names["#sk"] = t.sortKey
	cond := "attribute_exists(#sk)"
	if readAt != nil {
		read, err := attributevalue.Marshal(readAt.UTC())
		if err != nil {
			return nil, fmt.Errorf("marshal %s version: %w", t.entity, err)
		}
		ue.Names["#ua"] = attrUpdatedAt
		ue.Values[":read"] = read
		cond += " AND #ua = :read"
	}
	out, err := t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(t.name),
		Key:                                 t.key(userID, id),
		UpdateExpression:                    aws.String(ue.Expr),
		ConditionExpression:                 aws.String(cond),
		ExpressionAttributeNames:            ue.Names,
		ExpressionAttributeValues:           ue.Values,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if isConditionFailed(err) {
			if readAt != nil && conditionFailedItem(err) != nil {
				return nil, fmt.Errorf("%s %s changed since read: %w", t.entity, id, domain.ErrConflict)
			}
			return nil, fmt.Errorf("%s %s: %w", t.entity, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update %s: %w", t.entity, err)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Attributes, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", t.entity, err)
	}
	return &v, nil
}

func (t userTable[T]) delete(ctx context.Context, userID, id string) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(t.name),
		Key:                      t.key(userID, id),
		ConditionExpression:      aws.String("attribute_exists(#sk)"),
		ExpressionAttributeNames: map[string]string{"#sk": t.sortKey},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("%s %s: %w", t.entity, id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", t.entity, err)
	}
	return nil
}

// list returns every item owned by userID that matches f, following
// pagination to the end.
func (t userTable[T]) list(ctx context.Context, userID string, f filter) ([]T, error) {
	names := map[string]string{"#pk": attrUserID}
	values := map[string]types.AttributeValue{":pk": strVal(userID)}
	for k, v := range f.Names {
		names[k] = v
	}
	for k, v := range f.Values {
		values[k] = v
	}
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(t.name),
		KeyConditionExpression:    aws.String("#pk = :pk"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	if f.Expr != "" {
		input.FilterExpression = aws.String(f.Expr)
	}

	var items []T
	p := dynamodb.NewQueryPaginator(t.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", t.entity, err)
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", t.entity, err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

func (t userTable[T]) batchPut(ctx context.Context, items []T) error {
	reqs := make([]types.WriteRequest, 0, len(items))
	for i := range items {
		av, err := attributevalue.MarshalMap(&items[i])
		if err != nil {
			return fmt.Errorf("marshal %s: %w", t.entity, err)
		}
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	return t.batchWrite(ctx, reqs)
}

func (t userTable[T]) batchDelete(ctx context.Context, userID string, ids []string) error {
	reqs := make([]types.WriteRequest, 0, len(ids))
	for _, id := range ids {
		reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: t.key(userID, id)}})
	}
	return t.batchWrite(ctx, reqs)
}

func (t userTable[T]) batchWrite(ctx context.Context, reqs []types.WriteRequest) error {
	for start := 0; start < len(reqs); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(reqs))
		pending := map[string][]types.WriteRequest{t.name: reqs[start:end]}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt == maxBatchAttempts {
				return fmt.Errorf("batch write %s: %d requests unprocessed", t.entity, len(pending[t.name]))
			}
			out, err := t.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch write %s: %w", t.entity, err)
			}
			pending = out.UnprocessedItems
			if len(pending) > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
				}
			}
		}
	}
	return nil
}
