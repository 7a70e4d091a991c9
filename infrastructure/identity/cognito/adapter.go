// Package cognito adapts Amazon Cognito user pool operations to the identity
// provider port. One user pool serves every tenant: users carry a tenant
// attribute, groups are name-qualified per tenant, and the adapter enforces
// both so a tenant can never see or mutate another tenant's records.
package cognito

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/domain"
	apperrors "github.com/hakrNJN/user-management-service-sub001/pkg/errors"
)

// tenantAttrName is the custom user-pool attribute carrying the tenant.
const tenantAttrName = "custom:tenant_id"

// groupSeparator joins the tenant qualifier and the plain group name inside
// the shared user pool.
const groupSeparator = "."

// CognitoAPI is the subset of the Cognito identity provider client the
// adapter uses. Declared here so tests can substitute a fake.
type CognitoAPI interface {
	AdminCreateUser(ctx context.Context, params *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error)
	AdminGetUser(ctx context.Context, params *cognitoidentityprovider.AdminGetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminGetUserOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, params *cognitoidentityprovider.AdminUpdateUserAttributesInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminUpdateUserAttributesOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
	AdminSetUserPassword(ctx context.Context, params *cognitoidentityprovider.AdminSetUserPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error)
	AdminEnableUser(ctx context.Context, params *cognitoidentityprovider.AdminEnableUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminEnableUserOutput, error)
	AdminDisableUser(ctx context.Context, params *cognitoidentityprovider.AdminDisableUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDisableUserOutput, error)
	ListUsers(ctx context.Context, params *cognitoidentityprovider.ListUsersInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersOutput, error)
	CreateGroup(ctx context.Context, params *cognitoidentityprovider.CreateGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.CreateGroupOutput, error)
	GetGroup(ctx context.Context, params *cognitoidentityprovider.GetGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetGroupOutput, error)
	DeleteGroup(ctx context.Context, params *cognitoidentityprovider.DeleteGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.DeleteGroupOutput, error)
	ListGroups(ctx context.Context, params *cognitoidentityprovider.ListGroupsInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListGroupsOutput, error)
	AdminAddUserToGroup(ctx context.Context, params *cognitoidentityprovider.AdminAddUserToGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error)
	AdminRemoveUserFromGroup(ctx context.Context, params *cognitoidentityprovider.AdminRemoveUserFromGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminRemoveUserFromGroupOutput, error)
	AdminListGroupsForUser(ctx context.Context, params *cognitoidentityprovider.AdminListGroupsForUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error)
	ListUsersInGroup(ctx context.Context, params *cognitoidentityprovider.ListUsersInGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersInGroupOutput, error)
}

// Adapter implements ports.IdentityProvider on a Cognito user pool. All calls
// pass through a circuit breaker so a degraded pool sheds load instead of
// stacking timeouts.
type Adapter struct {
	client     CognitoAPI
	userPoolID string
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

var _ ports.IdentityProvider = (*Adapter)(nil)

// NewClient builds a Cognito client for the given region using the default
// AWS credential chain.
func NewClient(ctx context.Context, region string) (*cognitoidentityprovider.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return cognitoidentityprovider.NewFromConfig(cfg), nil
}

// NewAdapter creates the adapter bound to one user pool.
func NewAdapter(client CognitoAPI, userPoolID string, logger *zap.Logger) *Adapter {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cognito",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("identity provider circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Client errors (absent users, duplicate names) say nothing
			// about pool health and must not trip the breaker.
			return err == nil || !isProviderFault(err)
		},
	})
	return &Adapter{client: client, userPoolID: userPoolID, breaker: breaker, logger: logger}
}

// execute runs one provider call through the circuit breaker and maps the
// failure into the application error taxonomy.
func (a *Adapter) execute(operation string, fn func() error) error {
	_, err := a.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.NewIdPError(operation, err)
	}
	return mapCognitoError(operation, err)
}

func mapCognitoError(operation string, err error) error {
	var userNotFound *types.UserNotFoundException
	var resourceNotFound *types.ResourceNotFoundException
	var usernameExists *types.UsernameExistsException
	var groupExists *types.GroupExistsException
	var invalidParam *types.InvalidParameterException
	var invalidPassword *types.InvalidPasswordException

	switch {
	case errors.As(err, &userNotFound):
		return apperrors.NewNotFoundError("user", "")
	case errors.As(err, &resourceNotFound):
		return apperrors.NewNotFoundError("group", "")
	case errors.As(err, &usernameExists):
		return apperrors.NewExistsError("user", "")
	case errors.As(err, &groupExists):
		return apperrors.NewExistsError("group", "")
	case errors.As(err, &invalidParam):
		return apperrors.NewValidationError(err.Error())
	case errors.As(err, &invalidPassword):
		return apperrors.NewValidationError(err.Error())
	}
	return apperrors.NewIdPError(operation, err)
}

// isProviderFault reports whether the error signals Cognito itself is
// unhealthy rather than the request being wrong.
func isProviderFault(err error) bool {
	mapped := mapCognitoError("", err)
	return apperrors.IsIdP(mapped)
}

func qualifiedGroup(tenantID, name string) string {
	return tenantID + groupSeparator + name
}

func unqualifyGroup(tenantID, qualified string) (string, bool) {
	return strings.CutPrefix(qualified, tenantID+groupSeparator)
}

func validateTenant(tenantID string) error {
	if tenantID == "" {
		return apperrors.NewValidationError("tenant id must not be empty")
	}
	if strings.Contains(tenantID, groupSeparator) {
		return apperrors.NewValidationError("tenant id must not contain " + groupSeparator)
	}
	return nil
}

// CreateUser provisions a user carrying the tenant attribute.
func (a *Adapter) CreateUser(ctx context.Context, tenantID string, input ports.CreateUserInput) (*domain.User, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if input.Username == "" {
		return nil, apperrors.NewValidationError("username must not be empty")
	}

	attrs := []types.AttributeType{
		{Name: aws.String(tenantAttrName), Value: aws.String(tenantID)},
	}
	if input.Email != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("email"), Value: aws.String(input.Email)})
	}
	for name, value := range input.Attributes {
		if name == tenantAttrName {
			continue
		}
		attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}

	createInput := &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:     aws.String(a.userPoolID),
		Username:       aws.String(input.Username),
		UserAttributes: attrs,
	}
	if input.TemporaryPassword != "" {
		createInput.TemporaryPassword = aws.String(input.TemporaryPassword)
	}
	if input.SuppressInvite {
		createInput.MessageAction = types.MessageActionTypeSuppress
	}

	var out *cognitoidentityprovider.AdminCreateUserOutput
	err := a.execute("CreateUser", func() error {
		var callErr error
		out, callErr = a.client.AdminCreateUser(ctx, createInput)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	user := userFromType(tenantID, out.User)
	a.logger.Info("user created",
		zap.String("tenant_id", tenantID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// GetUser fetches a user and verifies it belongs to the tenant. A user in
// another tenant is reported as absent, never as foreign.
func (a *Adapter) GetUser(ctx context.Context, tenantID, username string) (*domain.User, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	var out *cognitoidentityprovider.AdminGetUserOutput
	err := a.execute("GetUser", func() error {
		var callErr error
		out, callErr = a.client.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
		})
		return callErr
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("user", username)
		}
		return nil, err
	}

	user := userFromAttributes(aws.ToString(out.Username), out.UserAttributes)
	user.Status = domain.UserStatus(out.UserStatus)
	user.Enabled = out.Enabled
	if out.UserCreateDate != nil {
		user.CreatedAt = *out.UserCreateDate
	}
	if out.UserLastModifiedDate != nil {
		user.UpdatedAt = *out.UserLastModifiedDate
	}
	if user.TenantID != tenantID {
		return nil, apperrors.NewNotFoundError("user", username)
	}
	return user, nil
}

// UpdateUserAttributes updates attributes after verifying tenant ownership.
// The tenant attribute itself is immutable.
func (a *Adapter) UpdateUserAttributes(ctx context.Context, tenantID, username string, attributes map[string]string) error {
	if _, ok := attributes[tenantAttrName]; ok {
		return apperrors.NewValidationError(tenantAttrName + " cannot be changed")
	}
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}

	attrs := make([]types.AttributeType, 0, len(attributes))
	for name, value := range attributes {
		attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}
	return a.execute("UpdateUserAttributes", func() error {
		_, err := a.client.AdminUpdateUserAttributes(ctx, &cognitoidentityprovider.AdminUpdateUserAttributesInput{
			UserPoolId:     aws.String(a.userPoolID),
			Username:       aws.String(username),
			UserAttributes: attrs,
		})
		return err
	})
}

// DeleteUser removes the user after verifying tenant ownership.
func (a *Adapter) DeleteUser(ctx context.Context, tenantID, username string) error {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	err := a.execute("DeleteUser", func() error {
		_, callErr := a.client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
		})
		return callErr
	})
	if err != nil {
		return err
	}
	a.logger.Info("user deleted",
		zap.String("tenant_id", tenantID),
		zap.String("username", username),
	)
	return nil
}

// ListUsers returns one provider page filtered to the tenant. The page may be
// smaller than the limit because the pool is shared and filtering happens
// after the fetch.
func (a *Adapter) ListUsers(ctx context.Context, tenantID string, limit int32, nextToken string) (*ports.UserPage, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	input := &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(a.userPoolID),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	if nextToken != "" {
		input.PaginationToken = aws.String(nextToken)
	}

	var out *cognitoidentityprovider.ListUsersOutput
	err := a.execute("ListUsers", func() error {
		var callErr error
		out, callErr = a.client.ListUsers(ctx, input)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	page := &ports.UserPage{NextToken: aws.ToString(out.PaginationToken)}
	for _, u := range out.Users {
		user := userFromType(tenantID, &u)
		if user != nil && user.TenantID == tenantID {
			page.Users = append(page.Users, *user)
		}
	}
	return page, nil
}

// SetUserPassword sets the password after verifying tenant ownership.
func (a *Adapter) SetUserPassword(ctx context.Context, tenantID, username, password string, permanent bool) error {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	return a.execute("SetUserPassword", func() error {
		_, err := a.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
			Password:   aws.String(password),
			Permanent:  permanent,
		})
		return err
	})
}

// EnableUser re-enables a disabled account.
func (a *Adapter) EnableUser(ctx context.Context, tenantID, username string) error {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	return a.execute("EnableUser", func() error {
		_, err := a.client.AdminEnableUser(ctx, &cognitoidentityprovider.AdminEnableUserInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
		})
		return err
	})
}

// DisableUser blocks sign-in without deleting the account.
func (a *Adapter) DisableUser(ctx context.Context, tenantID, username string) error {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	return a.execute("DisableUser", func() error {
		_, err := a.client.AdminDisableUser(ctx, &cognitoidentityprovider.AdminDisableUserInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
		})
		return err
	})
}

// CreateGroup creates a tenant-qualified group.
func (a *Adapter) CreateGroup(ctx context.Context, tenantID, name, description string) (*domain.Group, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("group name must not be empty")
	}

	input := &cognitoidentityprovider.CreateGroupInput{
		UserPoolId: aws.String(a.userPoolID),
		GroupName:  aws.String(qualifiedGroup(tenantID, name)),
	}
	if description != "" {
		input.Description = aws.String(description)
	}

	var out *cognitoidentityprovider.CreateGroupOutput
	err := a.execute("CreateGroup", func() error {
		var callErr error
		out, callErr = a.client.CreateGroup(ctx, input)
		return callErr
	})
	if err != nil {
		if apperrors.IsExists(err) {
			return nil, apperrors.NewExistsError("group", name)
		}
		return nil, err
	}

	a.logger.Info("group created",
		zap.String("tenant_id", tenantID),
		zap.String("group", name),
	)
	return groupFromType(tenantID, out.Group), nil
}

// GetGroup fetches a tenant-qualified group.
func (a *Adapter) GetGroup(ctx context.Context, tenantID, name string) (*domain.Group, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	var out *cognitoidentityprovider.GetGroupOutput
	err := a.execute("GetGroup", func() error {
		var callErr error
		out, callErr = a.client.GetGroup(ctx, &cognitoidentityprovider.GetGroupInput{
			UserPoolId: aws.String(a.userPoolID),
			GroupName:  aws.String(qualifiedGroup(tenantID, name)),
		})
		return callErr
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("group", name)
		}
		return nil, err
	}
	return groupFromType(tenantID, out.Group), nil
}

// DeleteGroup removes a tenant-qualified group.
func (a *Adapter) DeleteGroup(ctx context.Context, tenantID, name string) error {
	if err := validateTenant(tenantID); err != nil {
		return err
	}
	err := a.execute("DeleteGroup", func() error {
		_, callErr := a.client.DeleteGroup(ctx, &cognitoidentityprovider.DeleteGroupInput{
			UserPoolId: aws.String(a.userPoolID),
			GroupName:  aws.String(qualifiedGroup(tenantID, name)),
		})
		return callErr
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFoundError("group", name)
		}
		return err
	}
	a.logger.Info("group deleted",
		zap.String("tenant_id", tenantID),
		zap.String("group", name),
	)
	return nil
}

// ListGroups returns every group belonging to the tenant.
func (a *Adapter) ListGroups(ctx context.Context, tenantID string) ([]domain.Group, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	input := &cognitoidentityprovider.ListGroupsInput{
		UserPoolId: aws.String(a.userPoolID),
	}
	var groups []domain.Group
	for {
		var out *cognitoidentityprovider.ListGroupsOutput
		err := a.execute("ListGroups", func() error {
			var callErr error
			out, callErr = a.client.ListGroups(ctx, input)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		for i := range out.Groups {
			if g := groupFromType(tenantID, &out.Groups[i]); g != nil {
				groups = append(groups, *g)
			}
		}
		if aws.ToString(out.NextToken) == "" {
			return groups, nil
		}
		input.NextToken = out.NextToken
	}
}

// AddUserToGroup adds the user to a tenant-qualified group after verifying
// the user belongs to the tenant.
func (a *Adapter) AddUserToGroup(ctx context.Context, tenantID, username, groupName string) error {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	err := a.execute("AddUserToGroup", func() error {
		_, callErr := a.client.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
			GroupName:  aws.String(qualifiedGroup(tenantID, groupName)),
		})
		return callErr
	})
	if err != nil && apperrors.IsNotFound(err) {
		return apperrors.NewNotFoundError("group", groupName)
	}
	return err
}

// RemoveUserFromGroup removes the membership.
func (a *Adapter) RemoveUserFromGroup(ctx context.Context, tenantID, username, groupName string) error {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return err
	}
	err := a.execute("RemoveUserFromGroup", func() error {
		_, callErr := a.client.AdminRemoveUserFromGroup(ctx, &cognitoidentityprovider.AdminRemoveUserFromGroupInput{
			UserPoolId: aws.String(a.userPoolID),
			Username:   aws.String(username),
			GroupName:  aws.String(qualifiedGroup(tenantID, groupName)),
		})
		return callErr
	})
	if err != nil && apperrors.IsNotFound(err) {
		return apperrors.NewNotFoundError("group", groupName)
	}
	return err
}

// ListGroupsForUser returns the tenant's groups the user belongs to.
func (a *Adapter) ListGroupsForUser(ctx context.Context, tenantID, username string) ([]domain.Group, error) {
	if _, err := a.GetUser(ctx, tenantID, username); err != nil {
		return nil, err
	}

	input := &cognitoidentityprovider.AdminListGroupsForUserInput{
		UserPoolId: aws.String(a.userPoolID),
		Username:   aws.String(username),
	}
	var groups []domain.Group
	for {
		var out *cognitoidentityprovider.AdminListGroupsForUserOutput
		err := a.execute("ListGroupsForUser", func() error {
			var callErr error
			out, callErr = a.client.AdminListGroupsForUser(ctx, input)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		for i := range out.Groups {
			if g := groupFromType(tenantID, &out.Groups[i]); g != nil {
				groups = append(groups, *g)
			}
		}
		if aws.ToString(out.NextToken) == "" {
			return groups, nil
		}
		input.NextToken = out.NextToken
	}
}

// ListUsersInGroup returns the members of a tenant-qualified group.
func (a *Adapter) ListUsersInGroup(ctx context.Context, tenantID, groupName string) ([]domain.User, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	input := &cognitoidentityprovider.ListUsersInGroupInput{
		UserPoolId: aws.String(a.userPoolID),
		GroupName:  aws.String(qualifiedGroup(tenantID, groupName)),
	}
	var users []domain.User
	for {
		var out *cognitoidentityprovider.ListUsersInGroupOutput
		err := a.execute("ListUsersInGroup", func() error {
			var callErr error
			out, callErr = a.client.ListUsersInGroup(ctx, input)
			return callErr
		})
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewNotFoundError("group", groupName)
			}
			return nil, err
		}
		for i := range out.Users {
			if u := userFromType(tenantID, &out.Users[i]); u != nil {
				users = append(users, *u)
			}
		}
		if aws.ToString(out.NextToken) == "" {
			return users, nil
		}
		input.NextToken = out.NextToken
	}
}

// userFromType maps a Cognito user record. Returns nil for nil input.
func userFromType(tenantID string, u *types.UserType) *domain.User {
	if u == nil {
		return nil
	}
	user := userFromAttributes(aws.ToString(u.Username), u.Attributes)
	user.Status = domain.UserStatus(u.UserStatus)
	user.Enabled = u.Enabled
	if u.UserCreateDate != nil {
		user.CreatedAt = *u.UserCreateDate
	}
	if u.UserLastModifiedDate != nil {
		user.UpdatedAt = *u.UserLastModifiedDate
	}
	return user
}

func userFromAttributes(username string, attrs []types.AttributeType) *domain.User {
	user := &domain.User{
		Username:   username,
		Attributes: make(map[string]string, len(attrs)),
	}
	for _, attr := range attrs {
		name := aws.ToString(attr.Name)
		value := aws.ToString(attr.Value)
		switch name {
		case tenantAttrName:
			user.TenantID = value
		case "email":
			user.Email = value
		default:
			user.Attributes[name] = value
		}
	}
	return user
}

// groupFromType maps a Cognito group, returning nil when the group does not
// belong to the tenant.
func groupFromType(tenantID string, g *types.GroupType) *domain.Group {
	if g == nil {
		return nil
	}
	name, ok := unqualifyGroup(tenantID, aws.ToString(g.GroupName))
	if !ok {
		return nil
	}
	group := &domain.Group{
		TenantID:    tenantID,
		Name:        name,
		Description: aws.ToString(g.Description),
	}
	if g.CreationDate != nil {
		group.CreatedAt = *g.CreationDate
	}
	return group
}
