package dynamodb

import (
	"context"
	"sort"
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
	metadataSortKey      = "METADATA"
	roleEntityType       = "Role"
	permissionEntityType = "Permission"
)

// metadataItem stores the descriptive record for a role or permission. The
// entity-type GSI (GSI2PK = "TENANT#{t}#{EntityType}") serves tenant-scoped
// listings without a table scan.
type metadataItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	TenantID    string `dynamodbav:"TenantId"`
	Name        string `dynamodbav:"Name"`
	Description string `dynamodbav:"Description,omitempty"`
	GSI2PK      string `dynamodbav:"GSI2PK"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func entityListKey(tenantID, entityType string) string {
	return tenantTag + keySeparator + tenantID + keySeparator + entityType
}

// metadataStore is the shared CRUD core; RoleRepository and
// PermissionRepository are thin typed wrappers over it.
type metadataStore struct {
	client          DynamoDBAPI
	tableName       string
	entityIndexName string
	logger          *zap.Logger
}

func (s *metadataStore) save(ctx context.Context, entityType string, kind EntityKind, tenantID, name, description string, createdAt, updatedAt time.Time) error {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return err
	}
	if err := validateKeyPart("name", name); err != nil {
		return err
	}

	item := metadataItem{
		PK:          tenantPrefix(tenantID, kind, name),
		SK:          metadataSortKey,
		EntityType:  entityType,
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		GSI2PK:      entityListKey(tenantID, entityType),
		CreatedAt:   createdAt.UTC().Format(time.RFC3339),
		UpdatedAt:   updatedAt.UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabaseError("SaveMetadata", err)
	}
	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return apperrors.NewDatabaseError("SaveMetadata", err)
	}
	return nil
}

func (s *metadataStore) find(ctx context.Context, kind EntityKind, tenantID, name string) (*metadataItem, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}
	if err := validateKeyPart("name", name); err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPrefix(tenantID, kind, name)},
			"SK": &types.AttributeValueMemberS{Value: metadataSortKey},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("GetMetadata", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	var item metadataItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, apperrors.NewDatabaseError("GetMetadata", err)
	}
	return &item, nil
}

func (s *metadataStore) list(ctx context.Context, entityType, tenantID string) ([]metadataItem, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return nil, err
	}

	keyCond := expression.Key("GSI2PK").Equal(expression.Value(entityListKey(tenantID, entityType)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("ListMetadata", err)
	}

	input := &awsdynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.entityIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []metadataItem
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("ListMetadata", err)
		}
		for _, raw := range result.Items {
			var item metadataItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				s.logger.Warn("skipping unparsable metadata item", zap.Error(err))
				continue
			}
			items = append(items, item)
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *metadataStore) delete(ctx context.Context, kind EntityKind, tenantID, name string) (bool, error) {
	if err := validateKeyPart("tenant id", tenantID); err != nil {
		return false, err
	}
	if err := validateKeyPart("name", name); err != nil {
		return false, err
	}

	result, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: tenantPrefix(tenantID, kind, name)},
			"SK": &types.AttributeValueMemberS{Value: metadataSortKey},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, apperrors.NewDatabaseError("DeleteMetadata", err)
	}
	return len(result.Attributes) > 0, nil
}

func parseMetadataTimes(item *metadataItem) (time.Time, time.Time) {
	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)
	return createdAt, updatedAt
}

// RoleRepository stores role metadata on the shared table.
type RoleRepository struct {
	store metadataStore
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

// NewRoleRepository creates the repository.
func NewRoleRepository(client DynamoDBAPI, tableName, entityIndexName string, logger *zap.Logger) *RoleRepository {
	return &RoleRepository{store: metadataStore{
		client:          client,
		tableName:       tableName,
		entityIndexName: entityIndexName,
		logger:          logger,
	}}
}

func (r *RoleRepository) Save(ctx context.Context, role *domain.Role) error {
	return r.store.save(ctx, roleEntityType, KindRole,
		role.TenantID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt)
}

func (r *RoleRepository) FindByName(ctx context.Context, tenantID, name string) (*domain.Role, error) {
	item, err := r.store.find(ctx, KindRole, tenantID, name)
	if err != nil || item == nil {
		return nil, err
	}
	createdAt, updatedAt := parseMetadataTimes(item)
	return &domain.Role{
		TenantID:    item.TenantID,
		Name:        item.Name,
		Description: item.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (r *RoleRepository) List(ctx context.Context, tenantID string) ([]domain.Role, error) {
	items, err := r.store.list(ctx, roleEntityType, tenantID)
	if err != nil {
		return nil, err
	}
	roles := make([]domain.Role, 0, len(items))
	for i := range items {
		createdAt, updatedAt := parseMetadataTimes(&items[i])
		roles = append(roles, domain.Role{
			TenantID:    items[i].TenantID,
			Name:        items[i].Name,
			Description: items[i].Description,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		})
	}
	return roles, nil
}

func (r *RoleRepository) Delete(ctx context.Context, tenantID, name string) (bool, error) {
	return r.store.delete(ctx, KindRole, tenantID, name)
}

// PermissionRepository stores permission metadata on the shared table.
type PermissionRepository struct {
	store metadataStore
}

var _ ports.PermissionRepository = (*PermissionRepository)(nil)

// NewPermissionRepository creates the repository.
func NewPermissionRepository(client DynamoDBAPI, tableName, entityIndexName string, logger *zap.Logger) *PermissionRepository {
	return &PermissionRepository{store: metadataStore{
		client:          client,
		tableName:       tableName,
		entityIndexName: entityIndexName,
		logger:          logger,
	}}
}

func (r *PermissionRepository) Save(ctx context.Context, permission *domain.Permission) error {
	return r.store.save(ctx, permissionEntityType, KindPermission,
		permission.TenantID, permission.Name, permission.Description, permission.CreatedAt, permission.UpdatedAt)
}

func (r *PermissionRepository) FindByName(ctx context.Context, tenantID, name string) (*domain.Permission, error) {
	item, err := r.store.find(ctx, KindPermission, tenantID, name)
	if err != nil || item == nil {
		return nil, err
	}
	createdAt, updatedAt := parseMetadataTimes(item)
	return &domain.Permission{
		TenantID:    item.TenantID,
		Name:        item.Name,
		Description: item.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (r *PermissionRepository) List(ctx context.Context, tenantID string) ([]domain.Permission, error) {
	items, err := r.store.list(ctx, permissionEntityType, tenantID)
	if err != nil {
		return nil, err
	}
	permissions := make([]domain.Permission, 0, len(items))
	for i := range items {
		createdAt, updatedAt := parseMetadataTimes(&items[i])
		permissions = append(permissions, domain.Permission{
			TenantID:    items[i].TenantID,
			Name:        items[i].Name,
			Description: items[i].Description,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		})
	}
	return permissions, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, tenantID, name string) (bool, error) {
	return r.store.delete(ctx, KindPermission, tenantID, name)
}
