package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// numKey builds a DynamoDB primary key map with a single numeric attribute.
func numKey(name string, value int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberN{Value: strconv.FormatInt(value, 10)},
	}
}

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(pkName, pkValue, skName, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName: &types.AttributeValueMemberS{Value: pkValue},
		skName: &types.AttributeValueMemberS{Value: skValue},
	}
}

// updateExpr is a SET expression with its placeholder maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression.
// Fields are emitted in sorted order so the expression is deterministic.
func buildUpdateExpr(updates map[string]interface{}) (updateExpr, error) {
	if len(updates) == 0 {
		return updateExpr{}, errors.New("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ue := updateExpr{
		Names:  make(map[string]string, len(keys)),
		Values: make(map[string]types.AttributeValue, len(keys)),
	}
	parts := make([]string, 0, len(keys))
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return updateExpr{}, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		parts = append(parts, nameKey+" = "+valueKey)
	}
	ue.Expr = "SET " + strings.Join(parts, ", ")
	return ue, nil
}

// filter is an optional Query FilterExpression with its placeholders.
type filter struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// and combines a condition into f. Placeholder names must not collide.
func (f *filter) and(expr string, names map[string]string, values map[string]types.AttributeValue) {
	if f.Expr == "" {
		f.Expr = expr
	} else {
		f.Expr += " AND " + expr
	}
	if f.Names == nil {
		f.Names = map[string]string{}
	}
	if f.Values == nil {
		f.Values = map[string]types.AttributeValue{}
	}
	for k, v := range names {
		f.Names[k] = v
	}
	for k, v := range values {
		f.Values[k] = v
	}
}

func strVal(s string) *types.AttributeValueMemberS {
	return &types.AttributeValueMemberS{Value: s}
}

// dateRange filters attr to the inclusive [start, end] window; empty bounds are open.
func dateRange(attr, start, end string) filter {
	var f filter
	names := map[string]string{"#d": attr}
	switch {
	case start != "" && end != "":
		f.and("#d BETWEEN :ds AND :de", names, map[string]types.AttributeValue{":ds": strVal(start), ":de": strVal(end)})
	case start != "":
		f.and("#d >= :ds", names, map[string]types.AttributeValue{":ds": strVal(start)})
	case end != "":
		f.and("#d <= :de", names, map[string]types.AttributeValue{":de": strVal(end)})
	}
	return f
}

// isConditionFailed reports whether err is a failed ConditionExpression.
func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// conditionFailedItem returns the item a failed condition was evaluated
// against, when the request asked for it. nil means the item was absent.
func conditionFailedItem(err error) map[string]types.AttributeValue {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ccf.Item
	}
	return nil
}
