package transaction

import (
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// parseCreateCommand turns the string fields of a create command into ledger
// parameters, collecting every invalid field
func parseCreateCommand(userID uuid.UUID, cmd usecase.CreateTransactionCommand) (entity.NewTransactionParams, error) {
	fields := map[string]string{}
	var cause error

	amount, err := entity.ParseAmount(cmd.Amount)
	if err != nil {
		fields["amount"] = "must be a positive decimal with at most 8 decimal places"
		cause = errs.ErrInvalidAmount
	}

	currency, err := entity.ParseCurrency(cmd.Currency)
	if err != nil {
		fields["currency"] = fmt.Sprintf("unsupported currency %q", cmd.Currency)
	}

	txType := entity.TransactionType(strings.ToLower(strings.TrimSpace(cmd.TransactionType)))
	if !txType.IsValid() {
		fields["transaction_type"] = fmt.Sprintf("unsupported transaction type %q", cmd.TransactionType)
	}

	if cmd.FromAccountID == nil && cmd.ToAccountID == nil {
		fields["account"] = "from_account or to_account is required"
	}
	if cmd.FromAccountID != nil && cmd.ToAccountID != nil && *cmd.FromAccountID == *cmd.ToAccountID {
		fields["to_account"] = "must differ from from_account"
	}

	if len(fields) > 0 {
		if cause == nil || len(fields) > 1 {
			return entity.NewTransactionParams{}, errs.NewFieldsError(fields)
		}
		return entity.NewTransactionParams{}, &errs.ValidationError{Fields: fields, Err: cause}
	}

	return entity.NewTransactionParams{
		FromAccountID:   cmd.FromAccountID,
		ToAccountID:     cmd.ToAccountID,
		Amount:          amount,
		Currency:        currency,
		FeeAmount:       decimal.Zero,
		TransactionType: txType,
		Description:     cmd.Description,
		CategoryID:      cmd.CategoryID,
		MerchantName:    cmd.MerchantName,
		InitiatedBy:     userID,
	}, nil
}
