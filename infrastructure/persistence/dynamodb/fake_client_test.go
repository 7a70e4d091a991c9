package dynamodb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamoClient is an in-memory stand-in for the DynamoDB API surface the
// repositories use. It honors composite keys, begins_with key conditions on
// the main table and both GSIs, equality filter expressions, pagination, the
// two conditional-write expressions the package issues, and lets tests inject
// throttle errors and unprocessed batch items.
type fakeDynamoClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// pageSize forces queries and scans to return at most this many items per
	// call so pagination paths get exercised. Zero means unlimited.
	pageSize int

	// Errors popped one per call before the operation runs.
	putErrs   []error
	queryErrs []error
	batchErrs []error

	// batchUnprocessedRounds makes the next N BatchWriteItem calls return
	// every request as unprocessed.
	batchUnprocessedRounds int

	putCalls   int
	queryCalls int
	batchCalls int
}

func newFakeClient() *fakeDynamoClient {
	return &fakeDynamoClient{items: make(map[string]map[string]types.AttributeValue)}
}

func throttleErr() error {
	return &types.ProvisionedThroughputExceededException{Message: aws.String("throughput exceeded")}
}

func itemMapKey(item map[string]types.AttributeValue) string {
	pk, _ := stringAttr(item, "PK")
	sk, _ := stringAttr(item, "SK")
	return pk + "\x00" + sk
}

func keyMapKey(key map[string]types.AttributeValue) string {
	return itemMapKey(key)
}

func popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (c *fakeDynamoClient) PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putCalls++
	if err := popErr(&c.putErrs); err != nil {
		return nil, err
	}

	key := itemMapKey(params.Item)
	if params.ConditionExpression != nil {
		existing, exists := c.items[key]
		switch {
		case strings.Contains(*params.ConditionExpression, "attribute_not_exists(SK)"):
			if exists {
				return nil, &types.ConditionalCheckFailedException{Message: aws.String("item exists")}
			}
		case strings.Contains(*params.ConditionExpression, "Version < :v"):
			if exists {
				existingVersion := numAttr(existing, "Version")
				wanted := numAttr(map[string]types.AttributeValue{"Version": params.ExpressionAttributeValues[":v"]}, "Version")
				if existingVersion >= wanted {
					return nil, &types.ConditionalCheckFailedException{Message: aws.String("stale version")}
				}
			}
		default:
			return nil, fmt.Errorf("fake: unsupported condition %q", *params.ConditionExpression)
		}
	}

	c.items[key] = params.Item
	return &awsdynamodb.PutItemOutput{}, nil
}

func numAttr(item map[string]types.AttributeValue, name string) int {
	n, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.Atoi(n.Value)
	return v
}

func (c *fakeDynamoClient) GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[keyMapKey(params.Key)]
	if !ok {
		return &awsdynamodb.GetItemOutput{}, nil
	}
	return &awsdynamodb.GetItemOutput{Item: item}, nil
}

func (c *fakeDynamoClient) DeleteItem(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := keyMapKey(params.Key)
	old, existed := c.items[key]
	delete(c.items, key)

	out := &awsdynamodb.DeleteItemOutput{}
	if params.ReturnValues == types.ReturnValueAllOld && existed {
		out.Attributes = old
	}
	return out, nil
}

// condition is one parsed clause of a key-condition or filter expression.
type fakeCondition struct {
	attr       string
	value      string
	beginsWith bool
}

var (
	beginsWithRe = regexp.MustCompile(`begins_with\s*\((\w+),\s*:(\w+)\)`)
	equalsRe     = regexp.MustCompile(`(\w+)\s*=\s*:(\w+)`)
)

// parseConditions substitutes expression attribute names, then extracts the
// equality and begins_with clauses. Only AND-joined clauses appear in this
// package's expressions.
func parseConditions(expr string, names map[string]string, values map[string]types.AttributeValue) []fakeCondition {
	substituted := expr
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		substituted = strings.ReplaceAll(substituted, k, names[k])
	}

	var conds []fakeCondition
	consumed := map[string]bool{}
	for _, m := range beginsWithRe.FindAllStringSubmatch(substituted, -1) {
		conds = append(conds, fakeCondition{attr: m[1], value: attrString(values[":"+m[2]]), beginsWith: true})
		consumed[m[2]] = true
	}
	for _, m := range equalsRe.FindAllStringSubmatch(substituted, -1) {
		if consumed[m[2]] {
			continue
		}
		conds = append(conds, fakeCondition{attr: m[1], value: attrString(values[":"+m[2]])})
	}
	return conds
}

func attrString(av types.AttributeValue) string {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}

func matches(item map[string]types.AttributeValue, conds []fakeCondition) bool {
	for _, cond := range conds {
		got, ok := stringAttr(item, cond.attr)
		if !ok {
			return false
		}
		if cond.beginsWith {
			if !strings.HasPrefix(got, cond.value) {
				return false
			}
		} else if got != cond.value {
			return false
		}
	}
	return true
}

// page sorts matched items by sort key, applies the exclusive start key and
// the page limit, and returns the slice plus the next-page key.
func (c *fakeDynamoClient) page(matched []map[string]types.AttributeValue, sortAttr string, startKey map[string]types.AttributeValue, limit *int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	sort.Slice(matched, func(i, j int) bool {
		si, _ := stringAttr(matched[i], sortAttr)
		sj, _ := stringAttr(matched[j], sortAttr)
		if si == sj {
			pi, _ := stringAttr(matched[i], "PK")
			pj, _ := stringAttr(matched[j], "PK")
			return pi < pj
		}
		return si < sj
	})

	start := 0
	if startKey != nil {
		marker := keyMapKey(startKey)
		for i, item := range matched {
			if itemMapKey(item) == marker {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	max := c.pageSize
	if limit != nil && (max == 0 || int(*limit) < max) {
		max = int(*limit)
	}
	if max > 0 && len(matched) > max {
		pageItems := matched[:max]
		last := pageItems[len(pageItems)-1]
		pk, _ := stringAttr(last, "PK")
		sk, _ := stringAttr(last, "SK")
		return pageItems, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		}
	}
	return matched, nil
}

func (c *fakeDynamoClient) Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryCalls++
	if err := popErr(&c.queryErrs); err != nil {
		return nil, err
	}

	conds := parseConditions(aws.ToString(params.KeyConditionExpression), toPlainNames(params.ExpressionAttributeNames), params.ExpressionAttributeValues)

	sortAttr := "SK"
	if params.IndexName != nil {
		switch {
		case strings.Contains(aws.ToString(params.KeyConditionExpression), "GSI1") || hasCondAttr(conds, "GSI1PK"):
			sortAttr = "GSI1SK"
		default:
			sortAttr = "PK"
		}
	}

	var matched []map[string]types.AttributeValue
	for _, item := range c.items {
		if params.IndexName != nil {
			// Items absent from a sparse index are invisible to it.
			if _, ok := item[indexHashAttr(conds)]; !ok {
				continue
			}
		}
		if matches(item, conds) {
			matched = append(matched, item)
		}
	}

	pageItems, lastKey := c.page(matched, sortAttr, params.ExclusiveStartKey, params.Limit)
	return &awsdynamodb.QueryOutput{Items: pageItems, LastEvaluatedKey: lastKey}, nil
}

func hasCondAttr(conds []fakeCondition, attr string) bool {
	for _, cond := range conds {
		if cond.attr == attr {
			return true
		}
	}
	return false
}

func indexHashAttr(conds []fakeCondition) string {
	for _, cond := range conds {
		if !cond.beginsWith {
			return cond.attr
		}
	}
	return "PK"
}

func (c *fakeDynamoClient) Scan(ctx context.Context, params *awsdynamodb.ScanInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var conds []fakeCondition
	if params.FilterExpression != nil {
		conds = parseConditions(*params.FilterExpression, toPlainNames(params.ExpressionAttributeNames), params.ExpressionAttributeValues)
	}

	var matched []map[string]types.AttributeValue
	for _, item := range c.items {
		if matches(item, conds) {
			matched = append(matched, item)
		}
	}

	pageItems, lastKey := c.page(matched, "PK", params.ExclusiveStartKey, params.Limit)
	return &awsdynamodb.ScanOutput{Items: pageItems, LastEvaluatedKey: lastKey}, nil
}

func (c *fakeDynamoClient) BatchWriteItem(ctx context.Context, params *awsdynamodb.BatchWriteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.BatchWriteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchCalls++
	if err := popErr(&c.batchErrs); err != nil {
		return nil, err
	}

	if c.batchUnprocessedRounds > 0 {
		c.batchUnprocessedRounds--
		return &awsdynamodb.BatchWriteItemOutput{UnprocessedItems: params.RequestItems}, nil
	}

	for _, requests := range params.RequestItems {
		for _, req := range requests {
			if req.DeleteRequest != nil {
				delete(c.items, keyMapKey(req.DeleteRequest.Key))
			}
			if req.PutRequest != nil {
				c.items[itemMapKey(req.PutRequest.Item)] = req.PutRequest.Item
			}
		}
	}
	return &awsdynamodb.BatchWriteItemOutput{}, nil
}

func toPlainNames(names map[string]string) map[string]string {
	if names == nil {
		return map[string]string{}
	}
	return names
}

// countEdges returns how many relationship edges (non-metadata, non-policy
// items) the table holds. Used by cascade assertions.
func (c *fakeDynamoClient) countEdges() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.items {
		sk, _ := stringAttr(item, "SK")
		if sk == metadataSortKey || sk == currentSortKey || strings.HasPrefix(sk, versionSKPrefix) {
			continue
		}
		n++
	}
	return n
}
