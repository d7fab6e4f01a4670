package dynamo

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"

	"github.com/bizboost/workshop-registration/registration"
)

const (
	gsi1 = "GSI1"
)

type DB struct {
	dynamoClient *dynamodb.Client
	tableName    string
}

func NewDB(dynamoClient *dynamodb.Client, tableName string) *DB {
	return &DB{
		dynamoClient: dynamoClient,
		tableName:    tableName,
	}
}

func newEntityConditional() expression.ConditionBuilder {
	return expression.Name("PK").AttributeNotExists()
}

// notTerminalConditional guards every write against records that already have
// a payment outcome. Only ApplyTerminalStatus may produce a terminal status,
// and even it transitions at most once.
func notTerminalConditional() expression.ConditionBuilder {
	return expression.Name("PK").AttributeExists().
		And(expression.Name("Status").NotEqual(expression.Value(registration.COMPLETED.String()))).
		And(expression.Name("Status").NotEqual(expression.Value(registration.FAILED.String())))
}

func exprMustBuild(builder expression.Builder) expression.Expression {
	expr, err := builder.Build()
	if err != nil {
		panic("failed to build dynamo expression")
	}

	return expr
}

func isConditionalCheckFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}
