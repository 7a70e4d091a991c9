package dynamodb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

const (
	policyEntityType = "Policy"
	currentSortKey   = "CURRENT"
	versionSKPrefix  = "VERSION#"
)

// policyItem stores one policy version. The same shape is written twice per
// save: once under a zero-padded version sort key (immutable snapshot) and
// once under the CURRENT pointer.
type policyItem struct {
	PK          string            `dynamodbav:"PK"`
	SK          string            `dynamodbav:"SK"`
	EntityType  string            `dynamodbav:"EntityType"`
	PolicyID    string            `dynamodbav:"PolicyId"`
	TenantID    string            `dynamodbav:"TenantId"`
	Name        string            `dynamodbav:"Name"`
	Definition  string            `dynamodbav:"Definition"`
	Language    string            `dynamodbav:"Language"`
	Version     int               `dynamodbav:"Version"`
	Description string            `dynamodbav:"Description,omitempty"`
	Metadata    map[string]string `dynamodbav:"Metadata,omitempty"`
	IsActive    bool              `dynamodbav:"IsActive"`
	CreatedAt   string            `dynamodbav:"CreatedAt"`
	UpdatedAt   string            `dynamodbav:"UpdatedAt"`
}

// PolicyRepository stores versioned policy documents on the shared table.
type PolicyRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
}

var _ ports.PolicyRepository = (*PolicyRepository)(nil)

// NewPolicyRepository creates the repository.
func NewPolicyRepository(client DynamoDBAPI, tableName string, logger *zap.Logger) *PolicyRepository {
	return &PolicyRepository{client: client, tableName: tableName, logger: logger}
}

// versionSortKey zero-pads so lexicographic sort-key order equals numeric
// version order.
func versionSortKey(version int) string {
	return fmt.Sprintf("%s%010d", versionSKPrefix, version)
}

// Save writes the policy as a new immutable version item, then moves the
// CURRENT pointer. The version item is create-if-absent and the pointer move
// is guarded by a version condition, so two writers racing on the same
// version number surface as a conflict instead of silently overwriting.
func (r *PolicyRepository) Save(ctx context.Context, policy *domain.Policy) error {
	if err := validateKeyPart("tenant id", policy.TenantID); err != nil {
		return err
	}
	if err := validateKeyPart("policy id", policy.ID); err != nil {
		return err
	}
	if policy.Version < 1 {
		return apperrors.NewValidationError("policy version must be >= 1")
	}

	pk := tenantPrefix(policy.TenantID, KindPolicy, policy.ID)
	base := policyItem{
		PK:          pk,
		EntityType:  policyEntityType,
		PolicyID:    policy.ID,
		TenantID:    policy.TenantID,
		Name:        policy.Name,
		Definition:  policy.Definition,
		Language:    policy.Language,
		Version:     policy.Version,
		Description: policy.Description,
		Metadata:    policy.Metadata,
		IsActive:    policy.IsActive,
		CreatedAt:   policy.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   policy.UpdatedAt.UTC().Format(time.RFC3339),
	}

	versionItem := base
	versionItem.SK = versionSortKey(policy.Version)
	av, err := attributevalue.MarshalMap(versionItem)
	if err != nil {
		return apperrors.NewDatabaseError("SavePolicy", err)
	}
	_, err = r.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NewExistsError("policy version",
				fmt.Sprintf("%s@v%d", policy.ID, policy.Version))
		}
		return apperrors.NewDatabaseError("SavePolicy", err)
	}

	currentItem := base
	currentItem.SK = currentSortKey
	av, err = attributevalue.MarshalMap(currentItem)
	if err != nil {
		return apperrors.NewDatabaseError("SavePolicy", err)
	}
	_, err = r.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR Version < :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", policy.Version)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NewExistsError("policy version",
				fmt.Sprintf("%s@v%d (newer version already current)", policy.ID, policy.Version))
		}
		return apperrors.NewDatabaseError("SavePolicy", err)
	}

	r.logger.Debug("policy saved",
		zap.String("tenant_id", policy.TenantID),
		zap.String("policy_id", policy.ID),
		zap.Int("version", policy.Version),
	)
	return nil
}

// FindByID returns the current version of the policy, or nil when absent.
func (r *PolicyRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Policy, error) {
	return r.getItem(ctx, tenantID, id, currentSortKey)
}

// GetPolicyVersion returns one exact version, or nil when absent.
func (r *PolicyRepository) GetPolicyVersion(ctx context.Context, tenantID, id string, version int) (*domain.Policy, error) {
	if version < 1 {
		return nil, apperrors.NewValidationError("policy version must be >= 1")
	}
	return r.getItem(ctx, tenantID, id, versionSortKey(version))
}

func (r *PolicyRepository) getItem(ctx context.Context, tenantID, id, sk string) (*domain.Policy, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}
	if err := validateKeyPart("policy id", id); err != nil {
		return nil, err
	}

	result, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPrefix(tenantID, KindPolicy, id)},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("GetPolicy", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	return parsePolicyItem(result.Item)
}

// FindByName scans for the first active policy with the given name. This is
// O(table size) and returns an arbitrary winner when names collide; a
// (tenantId, name) index would be the fix if name uniqueness ever becomes a
// contract.
func (r *PolicyRepository) FindByName(ctx context.Context, tenantID, name string) (*domain.Policy, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}

	filter := policyCurrentFilter(tenantID).
		And(expression.Name("Name").Equal(expression.Value(name)))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("FindPolicyByName", err)
	}

	input := &awsdynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	for {
		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("FindPolicyByName", err)
		}
		if len(result.Items) > 0 {
			return parsePolicyItem(result.Items[0])
		}
		if result.LastEvaluatedKey == nil {
			return nil, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// List returns one scan page of current policy versions, optionally filtered
// by language, with an opaque continuation token.
func (r *PolicyRepository) List(ctx context.Context, tenantID string, opts ports.ListPolicyOptions) (*ports.PolicyPage, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}

	filter := policyCurrentFilter(tenantID)
	if opts.Language != "" {
		filter = filter.And(expression.Name("Language").Equal(expression.Value(opts.Language)))
	}
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("ListPolicies", err)
	}

	input := &awsdynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if opts.Limit > 0 {
		input.Limit = aws.Int32(opts.Limit)
	}
	if opts.StartKey != "" {
		startKey, err := decodeStartKey(opts.StartKey)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid continuation token")
		}
		input.ExclusiveStartKey = startKey
	}

	result, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, apperrors.NewDatabaseError("ListPolicies", err)
	}

	page := &ports.PolicyPage{Items: make([]domain.Policy, 0, len(result.Items))}
	for _, item := range result.Items {
		policy, err := parsePolicyItem(item)
		if err != nil {
			r.logger.Warn("skipping unparsable policy item", zap.Error(err))
			continue
		}
		page.Items = append(page.Items, *policy)
	}
	if result.LastEvaluatedKey != nil {
		token, err := encodeStartKey(result.LastEvaluatedKey)
		if err != nil {
			return nil, apperrors.NewDatabaseError("ListPolicies", err)
		}
		page.NextKey = token
	}
	return page, nil
}

// ListPolicyVersions returns every stored version ascending. Zero-padded
// version sort keys make the store's native ordering numeric.
func (r *PolicyRepository) ListPolicyVersions(ctx context.Context, tenantID, id string) ([]domain.Policy, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}
	if err := validateKeyPart("policy id", id); err != nil {
		return nil, err
	}

	keyCond := expression.Key("PK").Equal(expression.Value(tenantPrefix(tenantID, KindPolicy, id))).
		And(expression.Key("SK").BeginsWith(versionSKPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("ListPolicyVersions", err)
	}

	input := &awsdynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var versions []domain.Policy
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("ListPolicyVersions", err)
		}
		for _, item := range result.Items {
			policy, err := parsePolicyItem(item)
			if err != nil {
				r.logger.Warn("skipping unparsable policy version", zap.Error(err))
				continue
			}
			versions = append(versions, *policy)
		}
		if result.LastEvaluatedKey == nil {
			return versions, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// Delete removes the CURRENT pointer and returns whether anything existed.
// Version snapshots are retained so a deleted policy remains inspectable and
// rollback history is preserved.
func (r *PolicyRepository) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return false, err
	}
	if err := validateKeyPart("policy id", id); err != nil {
		return false, err
	}

	result, err := r.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPrefix(tenantID, KindPolicy, id)},
			"SK": &types.AttributeValueMemberS{Value: currentSortKey},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, apperrors.NewDatabaseError("DeletePolicy", err)
	}
	return len(result.Attributes) > 0, nil
}

func policyCurrentFilter(tenantID string) expression.ConditionBuilder {
	return expression.Name("EntityType").Equal(expression.Value(policyEntityType)).
		And(expression.Name("TenantId").Equal(expression.Value(tenantID))).
		And(expression.Name("SK").Equal(expression.Value(currentSortKey)))
}

func parsePolicyItem(item map[string]types.AttributeValue) (*domain.Policy, error) {
	var pi policyItem
	if err := attributevalue.UnmarshalMap(item, &pi); err != nil {
		return nil, apperrors.NewDatabaseError("ParsePolicy", err)
	}
	createdAt, _ := time.Parse(time.RFC3339, pi.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, pi.UpdatedAt)
	return &domain.Policy{
		ID:          pi.PolicyID,
		TenantID:    pi.TenantID,
		Name:        pi.Name,
		Definition:  pi.Definition,
		Language:    pi.Language,
		Version:     pi.Version,
		Description: pi.Description,
		Metadata:    pi.Metadata,
		IsActive:    pi.IsActive,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// Continuation tokens are the base64 of the string-typed LastEvaluatedKey.
// Policy scans only ever produce string key attributes.

func encodeStartKey(key map[string]types.AttributeValue) (string, error) {
	plain := make(map[string]string, len(key))
	for name, attr := range key {
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("unsupported key attribute type for %q", name)
		}
		plain[name] = s.Value
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeStartKey(token string) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var plain map[string]string
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	key := make(map[string]types.AttributeValue, len(plain))
	for name, value := range plain {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
