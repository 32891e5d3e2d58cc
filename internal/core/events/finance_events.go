package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated     = "expense.created"
	EventTypeExpensesGenerated  = "recurring.expenses_generated"
	EventTypeBudgetExceeded     = "budget.exceeded"
	EventTypeBudgetNearingLimit = "budget.nearing_limit"
)

// NewExpenseCreated is published whenever an expense record lands in the
// store, whether entered by hand or materialized from a recurring template.
func NewExpenseCreated(userID, expenseID int64, amount string, date string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeExpenseCreated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":    userID,
			"expense_id": expenseID,
			"amount":     amount,
			"date":       date,
		},
	}
}

// NewExpensesGenerated is published once per successful generation run.
func NewExpensesGenerated(userID int64, generatedCount int, upToDate string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeExpensesGenerated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":         userID,
			"generated_count": generatedCount,
			"up_to_date":      upToDate,
		},
	}
}

func NewBudgetNearingLimit(userID, budgetID, categoryID int64, percentageUsed string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeBudgetNearingLimit,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":         userID,
			"budget_id":       budgetID,
			"category_id":     categoryID,
			"percentage_used": percentageUsed,
		},
	}
}

func NewBudgetExceeded(userID, budgetID, categoryID int64, spending, limit string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeBudgetExceeded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":     userID,
			"budget_id":   budgetID,
			"category_id": categoryID,
			"spending":    spending,
			"limit":       limit,
		},
	}
}
