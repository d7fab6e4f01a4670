package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/bizboost/workshop-registration/registration"
)

var _ registration.Repository = &DB{}

type registrationDynamo struct {
	PK     string
	SK     string
	GSI1PK string `dynamodbav:",omitempty"`
	GSI1SK string `dynamodbav:",omitempty"`

	ID string

	FirstName     string
	LastName      string
	PersonalEmail string
	BusinessEmail string
	Phone         string
	CountryCode   string

	BusinessName    string
	Website         string
	Snapshot        string
	TargetCustomers string
	YearsOperating  string
	Goal            string

	ReferralSource string
	ReferralOther  string

	WorkshopTitle string
	WorkshopPrice int64
	Currency      string

	CurrentStep int
	Status      string
	SubmittedAt *time.Time

	CheckoutSessionID string

	PaymentStatus      string
	PaymentCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	RequestIP string
	UserAgent string
}

const (
	registrationEntityName    = "REGISTRATION"
	checkoutSessionEntityName = "CHECKOUT_SESSION"
)

func registrationPK(id string) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, id)
}

func registrationSK(id string) string {
	return registrationPK(id)
}

func checkoutSessionGSI1PK(sessionID string) string {
	return fmt.Sprintf("%s#%s", checkoutSessionEntityName, sessionID)
}

func registrationToDynamo(reg registration.Registration) registrationDynamo {
	dynReg := registrationDynamo{
		PK:                 registrationPK(reg.ID),
		SK:                 registrationSK(reg.ID),
		ID:                 reg.ID,
		FirstName:          reg.FirstName,
		LastName:           reg.LastName,
		PersonalEmail:      reg.PersonalEmail,
		BusinessEmail:      reg.BusinessEmail,
		Phone:              reg.Phone,
		CountryCode:        reg.CountryCode,
		BusinessName:       reg.BusinessName,
		Website:            reg.Website,
		Snapshot:           reg.Snapshot,
		TargetCustomers:    reg.TargetCustomers,
		YearsOperating:     reg.YearsOperating,
		Goal:               reg.Goal,
		ReferralSource:     reg.ReferralSource,
		ReferralOther:      reg.ReferralOther,
		WorkshopTitle:      reg.WorkshopTitle,
		WorkshopPrice:      reg.WorkshopPrice,
		Currency:           reg.Currency,
		CurrentStep:        reg.CurrentStep,
		Status:             reg.Status.String(),
		SubmittedAt:        reg.SubmittedAt,
		CheckoutSessionID:  reg.CheckoutSessionID,
		PaymentStatus:      reg.PaymentStatus,
		PaymentCompletedAt: reg.PaymentCompletedAt,
		CreatedAt:          reg.CreatedAt,
		UpdatedAt:          reg.UpdatedAt,
		RequestIP:          reg.RequestIP,
		UserAgent:          reg.UserAgent,
	}

	if reg.CheckoutSessionID != "" {
		dynReg.GSI1PK = checkoutSessionGSI1PK(reg.CheckoutSessionID)
		dynReg.GSI1SK = registrationPK(reg.ID)
	}

	return dynReg
}

func dynamoToRegistration(dynReg registrationDynamo) (registration.Registration, error) {
	status, err := registration.ParseStatus(dynReg.Status)
	if err != nil {
		return registration.Registration{}, err
	}

	return registration.Registration{
		ID:                 dynReg.ID,
		FirstName:          dynReg.FirstName,
		LastName:           dynReg.LastName,
		PersonalEmail:      dynReg.PersonalEmail,
		BusinessEmail:      dynReg.BusinessEmail,
		Phone:              dynReg.Phone,
		CountryCode:        dynReg.CountryCode,
		BusinessName:       dynReg.BusinessName,
		Website:            dynReg.Website,
		Snapshot:           dynReg.Snapshot,
		TargetCustomers:    dynReg.TargetCustomers,
		YearsOperating:     dynReg.YearsOperating,
		Goal:               dynReg.Goal,
		ReferralSource:     dynReg.ReferralSource,
		ReferralOther:      dynReg.ReferralOther,
		WorkshopTitle:      dynReg.WorkshopTitle,
		WorkshopPrice:      dynReg.WorkshopPrice,
		Currency:           dynReg.Currency,
		CurrentStep:        dynReg.CurrentStep,
		Status:             status,
		SubmittedAt:        dynReg.SubmittedAt,
		CheckoutSessionID:  dynReg.CheckoutSessionID,
		PaymentStatus:      dynReg.PaymentStatus,
		PaymentCompletedAt: dynReg.PaymentCompletedAt,
		CreatedAt:          dynReg.CreatedAt,
		UpdatedAt:          dynReg.UpdatedAt,
		RequestIP:          dynReg.RequestIP,
		UserAgent:          dynReg.UserAgent,
	}, nil
}

func (d *DB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	item, err := attributevalue.MarshalMap(registrationToDynamo(reg))
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}

	expr := exprMustBuild(expression.NewBuilder().WithCondition(newEntityConditional()))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return registration.NewRegistrationAlreadyExistsError(fmt.Sprintf("Registration with ID %q already exists", reg.ID), err)
		}
		return registration.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

// UpdateRegistration replaces the mutable fields provided on reg. A step-save
// never resurrects cleared state it did not carry, and it can never touch a
// record that already has a payment outcome.
func (d *DB) UpdateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, error) {
	update := expression.Set(expression.Name("UpdatedAt"), expression.Value(reg.UpdatedAt))

	stringFields := map[string]string{
		"FirstName":       reg.FirstName,
		"LastName":        reg.LastName,
		"PersonalEmail":   reg.PersonalEmail,
		"BusinessEmail":   reg.BusinessEmail,
		"Phone":           reg.Phone,
		"CountryCode":     reg.CountryCode,
		"BusinessName":    reg.BusinessName,
		"Website":         reg.Website,
		"Snapshot":        reg.Snapshot,
		"TargetCustomers": reg.TargetCustomers,
		"YearsOperating":  reg.YearsOperating,
		"Goal":            reg.Goal,
		"ReferralSource":  reg.ReferralSource,
		"ReferralOther":   reg.ReferralOther,
		"WorkshopTitle":   reg.WorkshopTitle,
		"Currency":        reg.Currency,
		"RequestIP":       reg.RequestIP,
		"UserAgent":       reg.UserAgent,
	}
	for name, value := range stringFields {
		if value != "" {
			update = update.Set(expression.Name(name), expression.Value(value))
		}
	}

	if reg.WorkshopPrice > 0 {
		update = update.Set(expression.Name("WorkshopPrice"), expression.Value(reg.WorkshopPrice))
	}
	if reg.CurrentStep > 0 {
		update = update.Set(expression.Name("CurrentStep"), expression.Value(reg.CurrentStep))
	}
	if reg.Status != "" {
		update = update.Set(expression.Name("Status"), expression.Value(reg.Status.String()))
	}
	if reg.SubmittedAt != nil {
		update = update.Set(expression.Name("SubmittedAt"), expression.Value(*reg.SubmittedAt))
	}

	expr := exprMustBuild(expression.NewBuilder().
		WithUpdate(update).
		WithCondition(notTerminalConditional()))

	return d.updateRegistrationItem(ctx, reg.ID, expr)
}

func (d *DB) GetRegistration(ctx context.Context, id string) (registration.Registration, error) {
	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
		},
	})
	if err != nil {
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with ID %q", id), err)
	}

	if len(resp.Item) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistError(fmt.Sprintf("Registration with ID %q not found", id), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg)
}

func (d *DB) GetRegistrationBySessionID(ctx context.Context, sessionID string) (registration.Registration, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(checkoutSessionGSI1PK(sessionID)))

	expr := exprMustBuild(expression.NewBuilder().WithKeyCondition(keyCond))

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		IndexName:                 aws.String(gsi1),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to query registration by checkout session %q", sessionID), err)
	}

	if len(result.Items) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistError(fmt.Sprintf("No registration holds checkout session %q", sessionID), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(result.Items[0], &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg)
}

func (d *DB) AttachCheckoutSession(ctx context.Context, id string, sessionID string) (registration.Registration, error) {
	now := time.Now()

	// A retried checkout overwrites the previous session id, never appends.
	update := expression.
		Set(expression.Name("CheckoutSessionID"), expression.Value(sessionID)).
		Set(expression.Name("GSI1PK"), expression.Value(checkoutSessionGSI1PK(sessionID))).
		Set(expression.Name("GSI1SK"), expression.Value(registrationPK(id))).
		Set(expression.Name("Status"), expression.Value(registration.PENDING_PAYMENT.String())).
		Set(expression.Name("UpdatedAt"), expression.Value(now))

	expr := exprMustBuild(expression.NewBuilder().
		WithUpdate(update).
		WithCondition(notTerminalConditional()))

	return d.updateRegistrationItem(ctx, id, expr)
}

func (d *DB) ApplyTerminalStatus(ctx context.Context, id string, target registration.Status, paymentStatus string, at time.Time) (registration.Registration, bool, error) {
	update := expression.
		Set(expression.Name("Status"), expression.Value(target.String())).
		Set(expression.Name("PaymentStatus"), expression.Value(paymentStatus)).
		Set(expression.Name("UpdatedAt"), expression.Value(at))
	if target == registration.COMPLETED {
		update = update.Set(expression.Name("PaymentCompletedAt"), expression.Value(at))
	}

	expr := exprMustBuild(expression.NewBuilder().
		WithUpdate(update).
		WithCondition(notTerminalConditional()))

	resp, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       registrationKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			// Either the registration does not exist, or it is already
			// terminal and this is a webhook redelivery. The latter is a
			// no-op, not an error.
			current, getErr := d.GetRegistration(ctx, id)
			if getErr != nil {
				return registration.Registration{}, false, getErr
			}
			return current, false, nil
		}
		return registration.Registration{}, false, registration.NewFailedToWriteError("Failed conditional terminal status update", err)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Attributes, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	reg, err := dynamoToRegistration(dynReg)
	if err != nil {
		return registration.Registration{}, false, err
	}

	return reg, true, nil
}

func (d *DB) updateRegistrationItem(ctx context.Context, id string, expr expression.Expression) (registration.Registration, error) {
	resp, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       registrationKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			if _, getErr := d.GetRegistration(ctx, id); getErr != nil {
				return registration.Registration{}, getErr
			}
			return registration.Registration{}, registration.NewRegistrationFinalizedError(fmt.Sprintf("Registration %q already has a payment outcome", id), err)
		}
		return registration.Registration{}, registration.NewFailedToWriteError("Failed UpdateItem call", err)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Attributes, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg)
}

func registrationKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
		"SK": &types.AttributeValueMemberS{Value: registrationSK(id)},
	}
}
