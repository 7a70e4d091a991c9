package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

const (
	// DynamoDB caps BatchWriteItem at 25 requests.
	batchWriteLimit = 25

	defaultWriteMaxAttempts = 5
	defaultWriteBaseDelay   = 100 * time.Millisecond

	defaultBatchMaxAttempts = 5
	defaultBatchBaseDelay   = time.Second
)

// relationshipItem is one directed edge in the authorization graph.
// GSI1PK/GSI1SK mirror the target and source so the reverse index can answer
// "who points at this target".
type relationshipItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	TenantID   string `dynamodbav:"TenantId"`
	AssignedAt string `dynamodbav:"AssignedAt"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
}

// ItemKey identifies one stored item for batch deletion.
type ItemKey struct {
	PK string
	SK string
}

// RelationshipStore is the only component that talks to the relationship
// table directly. It owns key encoding, pagination, throttle retries and
// batched deletes; the typed repositories are thin bindings over it.
type RelationshipStore struct {
	client           DynamoDBAPI
	tableName        string
	reverseIndexName string
	logger           *zap.Logger

	writeMaxAttempts int
	writeBaseDelay   time.Duration
	batchMaxAttempts int
	batchBaseDelay   time.Duration
}

// NewRelationshipStore creates a store bound to one table and its reverse
// lookup index.
func NewRelationshipStore(client DynamoDBAPI, tableName, reverseIndexName string, logger *zap.Logger) *RelationshipStore {
	return &RelationshipStore{
		client:           client,
		tableName:        tableName,
		reverseIndexName: reverseIndexName,
		logger:           logger,
		writeMaxAttempts: defaultWriteMaxAttempts,
		writeBaseDelay:   defaultWriteBaseDelay,
		batchMaxAttempts: defaultBatchMaxAttempts,
		batchBaseDelay:   defaultBatchBaseDelay,
	}
}

// Assign upserts one edge. Re-assigning an existing edge overwrites the same
// item, so the operation is idempotent from the caller's perspective.
// Throttle signals are retried with exponential backoff; any other failure is
// wrapped and surfaced immediately.
func (s *RelationshipStore) Assign(ctx context.Context, tenantID string, srcKind EntityKind, srcID string, tgtKind EntityKind, tgtID, label string) error {
	if err := validateEdgeParts(tenantID, srcID, tgtID); err != nil {
		return err
	}

	pk := tenantPrefix(tenantID, srcKind, srcID)
	item, err := attributevalue.MarshalMap(relationshipItem{
		PK:         pk,
		SK:         targetKey(tgtKind, tgtID),
		EntityType: label,
		TenantID:   tenantID,
		AssignedAt: time.Now().UTC().Format(time.RFC3339),
		GSI1PK:     tenantPrefix(tenantID, tgtKind, tgtID),
		GSI1SK:     pk,
	})
	if err != nil {
		return apperrors.NewDatabaseError("Assign", err)
	}

	input := &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	var lastErr error
	for attempt := 0; attempt < s.writeMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, s.writeBaseDelay, attempt-1); err != nil {
				return apperrors.NewDatabaseError("Assign", err)
			}
			storeRetries.WithLabelValues("assign").Inc()
		}

		_, lastErr = s.client.PutItem(ctx, input)
		if lastErr == nil {
			s.logger.Debug("edge assigned",
				zap.String("tenant_id", tenantID),
				zap.String("pk", pk),
				zap.String("label", label),
			)
			return nil
		}
		if !isThrottleError(lastErr) {
			return apperrors.NewDatabaseError("Assign", lastErr)
		}
		s.logger.Warn("assign throttled, backing off",
			zap.String("tenant_id", tenantID),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return apperrors.NewDatabaseError("Assign",
		fmt.Errorf("throttled after %d attempts: %w", s.writeMaxAttempts, lastErr))
}

// Remove deletes an edge unconditionally. Removing an absent edge succeeds.
func (s *RelationshipStore) Remove(ctx context.Context, tenantID string, srcKind EntityKind, srcID string, tgtKind EntityKind, tgtID, label string) error {
	if err := validateEdgeParts(tenantID, srcID, tgtID); err != nil {
		return err
	}

	_, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPrefix(tenantID, srcKind, srcID)},
			"SK": &types.AttributeValueMemberS{Value: targetKey(tgtKind, tgtID)},
		},
	})
	if err != nil {
		return apperrors.NewDatabaseError("Remove", err)
	}
	s.logger.Debug("edge removed",
		zap.String("tenant_id", tenantID),
		zap.String("source", string(srcKind)+"/"+srcID),
		zap.String("target", string(tgtKind)+"/"+tgtID),
		zap.String("label", label),
	)
	return nil
}

// QueryForward returns the IDs of every target of the given kind the source
// points at. The result is fully paginated; an unknown source yields an empty
// slice.
func (s *RelationshipStore) QueryForward(ctx context.Context, tenantID string, srcKind EntityKind, srcID string, tgtKind EntityKind) ([]string, error) {
	items, err := s.forwardItems(ctx, tenantID, srcKind, srcID, tgtKind)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		sk, ok := stringAttr(item, "SK")
		if !ok {
			continue
		}
		if id, ok := idFromTargetKey(sk, tgtKind); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// QueryReverse returns the IDs of every source of the given kind that points
// at the target, via the reverse-lookup index.
func (s *RelationshipStore) QueryReverse(ctx context.Context, tenantID string, tgtKind EntityKind, tgtID string, srcKind EntityKind) ([]string, error) {
	items, err := s.reverseItems(ctx, tenantID, tgtKind, tgtID, srcKind)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		pk, ok := stringAttr(item, "PK")
		if !ok {
			continue
		}
		if id, ok := idFromTenantPrefix(pk); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ForwardKeys collects the (PK, SK) pairs of every forward edge from the
// source to targets of the given kind. Used by cascade cleanup.
func (s *RelationshipStore) ForwardKeys(ctx context.Context, tenantID string, srcKind EntityKind, srcID string, tgtKind EntityKind) ([]ItemKey, error) {
	items, err := s.forwardItems(ctx, tenantID, srcKind, srcID, tgtKind)
	if err != nil {
		return nil, err
	}
	return itemKeys(items), nil
}

// ReverseKeys collects the (PK, SK) pairs of every edge pointing at the
// target from sources of the given kind.
func (s *RelationshipStore) ReverseKeys(ctx context.Context, tenantID string, tgtKind EntityKind, tgtID string, srcKind EntityKind) ([]ItemKey, error) {
	items, err := s.reverseItems(ctx, tenantID, tgtKind, tgtID, srcKind)
	if err != nil {
		return nil, err
	}
	return itemKeys(items), nil
}

// BatchDeleteItems deletes the given keys in chunks bounded by the DynamoDB
// batch limit. Unprocessed items are retried with exponential backoff up to a
// hard attempt ceiling; exhausting it fails the whole cleanup so partial
// success is never silent.
func (s *RelationshipStore) BatchDeleteItems(ctx context.Context, keys []ItemKey) error {
	if len(keys) == 0 {
		return nil
	}

	for start := 0; start < len(keys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: key.PK},
						"SK": &types.AttributeValueMemberS{Value: key.SK},
					},
				},
			})
		}

		if err := s.deleteBatchWithRetry(ctx, requests); err != nil {
			return err
		}
	}

	s.logger.Debug("batch delete completed", zap.Int("total_keys", len(keys)))
	return nil
}

func (s *RelationshipStore) deleteBatchWithRetry(ctx context.Context, requests []types.WriteRequest) error {
	pending := requests
	for attempt := 0; attempt < s.batchMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, s.batchBaseDelay, attempt-1); err != nil {
				return apperrors.NewDatabaseError("BatchWriteItem", err)
			}
			storeRetries.WithLabelValues("batch_delete").Inc()
		}

		result, err := s.client.BatchWriteItem(ctx, &awsdynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.tableName: pending},
		})
		if err != nil {
			if !isThrottleError(err) {
				return apperrors.NewDatabaseError("BatchWriteItem", err)
			}
			s.logger.Warn("batch delete throttled, backing off",
				zap.Int("attempt", attempt+1),
				zap.Int("pending", len(pending)),
			)
			continue
		}

		unprocessed := result.UnprocessedItems[s.tableName]
		if len(unprocessed) == 0 {
			return nil
		}
		pending = unprocessed
		s.logger.Warn("batch delete returned unprocessed items, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("unprocessed", len(unprocessed)),
		)
	}
	return apperrors.NewDatabaseError("BatchWriteItem",
		fmt.Errorf("%d items unprocessed after %d attempts", len(pending), s.batchMaxAttempts))
}

func (s *RelationshipStore) forwardItems(ctx context.Context, tenantID string, srcKind EntityKind, srcID string, tgtKind EntityKind) ([]map[string]types.AttributeValue, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}
	if err := validateKeyPart("source id", srcID); err != nil {
		return nil, err
	}

	keyCond := expression.Key("PK").Equal(expression.Value(tenantPrefix(tenantID, srcKind, srcID))).
		And(expression.Key("SK").BeginsWith(kindPrefix(tgtKind)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("QueryForward", err)
	}

	return s.queryAllItems(ctx, &awsdynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (s *RelationshipStore) reverseItems(ctx context.Context, tenantID string, tgtKind EntityKind, tgtID string, srcKind EntityKind) ([]map[string]types.AttributeValue, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}
	if err := validateKeyPart("target id", tgtID); err != nil {
		return nil, err
	}

	// GSI1SK mirrors the main-table PK, so the source-kind filter is a prefix
	// on the full tenant prefix.
	sourcePrefix := tenantTag + keySeparator + tenantID + keySeparator + string(srcKind) + keySeparator
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(tenantPrefix(tenantID, tgtKind, tgtID))).
		And(expression.Key("GSI1SK").BeginsWith(sourcePrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("QueryReverse", err)
	}

	return s.queryAllItems(ctx, &awsdynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.reverseIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

// queryAllItems drains a query across pages so callers never see partial
// results.
func (s *RelationshipStore) queryAllItems(ctx context.Context, input *awsdynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Query", err)
		}
		items = append(items, result.Items...)
		if result.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func validateEdgeParts(tenantID, srcID, tgtID string) error {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return err
	}
	if err := validateKeyPart("source id", srcID); err != nil {
		return err
	}
	return validateKeyPart("target id", tgtID)
}

func itemKeys(items []map[string]types.AttributeValue) []ItemKey {
	keys := make([]ItemKey, 0, len(items))
	for _, item := range items {
		pk, okPK := stringAttr(item, "PK")
		sk, okSK := stringAttr(item, "SK")
		if okPK && okSK {
			keys = append(keys, ItemKey{PK: pk, SK: sk})
		}
	}
	return keys
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, bool) {
	attr, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return attr.Value, true
}

// sleepBackoff waits baseDelay << attempt, honoring context cancellation.
func sleepBackoff(ctx context.Context, baseDelay time.Duration, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(baseDelay << attempt):
		return nil
	}
}

// isThrottleError reports whether the store signaled a throughput or rate
// limit, which is the only class of failure worth retrying.
func isThrottleError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return true
	}
	var requestLimit *types.RequestLimitExceeded
	if errors.As(err, &requestLimit) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ThrottledException", "ProvisionedThroughputExceededException":
			return true
		}
	}
	return false
}
