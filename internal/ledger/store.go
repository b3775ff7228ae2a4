package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/purnamyoga/checkout-backend/internal/aws"
)

// ErrDuplicateOrder indicates a record for the order id already exists. It is
// an expected outcome of replayed or racing callbacks, not an alarm.
var ErrDuplicateOrder = errors.New("duplicate order")

// Store is the durable order ledger backed by DynamoDB. The table's
// uniqueness constraint on order_id is the system's replay protection across
// restarts and instances.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore returns a Store bound to a table.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create inserts the one-and-only record for orderID. It fails with
// ErrDuplicateOrder if a record exists, enforced by a conditional write so
// there is no check-then-insert race window.
func (s *Store) Create(ctx context.Context, orderID, status string) (*Order, error) {
	order := Order{
		OrderID:   orderID,
		Status:    status,
		CreatedAt: s.nowFunc().UTC(),
	}

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
		// Only create when attribute_not_exists(order_id)
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		// detect conditional check failure
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException" {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("put item: %w", err)
	}

	return &order, nil
}

// FindByOrderID fetches the record for orderID. Returns (nil, nil) when no
// record exists.
func (s *Store) FindByOrderID(ctx context.Context, orderID string) (*Order, error) {
	input := &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	}
	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// Helper
func awsString(s string) *string { return &s }
