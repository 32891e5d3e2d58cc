package export

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	errors "github.com/adeharia/finance-tracker/internal"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/expense"
)

const timestampLayout = "2006-01-02 15:04:05"

var csvHeaders = []string{
	"id", "amount", "date", "description", "category_id", "user_id", "tags", "currency", "created_at",
}

// ExpenseStore provides the filtered expense set exports run over. Satisfied
// by the expense repository.
type ExpenseStore interface {
	Search(userID int64, filters expense.ExpenseFilters) ([]*expenseDatamodel.Expense, error)
}

type Service struct {
	expenses ExpenseStore
	logger   *slog.Logger
}

func NewService(expenses ExpenseStore, logger *slog.Logger) *Service {
	return &Service{
		expenses: expenses,
		logger:   logger,
	}
}

// ExportCSV renders the user's filtered expenses as CSV. Fields containing
// commas, quotes or newlines are quoted with doubled inner quotes; the tags
// field is always quoted since it is itself comma-joined.
func (s *Service) ExportCSV(userID int64, filters expense.ExpenseFilters) (string, error) {
	exps, err := s.load(userID, filters)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(exps)+1)
	lines = append(lines, strings.Join(csvHeaders, ","))

	for _, e := range exps {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.Amount.StringFixed(2),
			dates.Format(e.Date),
			escapeField(e.Description),
			formatCategoryID(e.CategoryID),
			strconv.FormatInt(e.UserID, 10),
			quoteField(e.Tags),
			currencyOrDefault(e.Currency),
			e.CreatedAt.UTC().Format(timestampLayout),
		}
		lines = append(lines, strings.Join(row, ","))
	}

	return strings.Join(lines, "\n"), nil
}

type exportedExpense struct {
	ID          int64    `json:"id"`
	Amount      string   `json:"amount"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	CategoryID  *int64   `json:"category_id"`
	UserID      int64    `json:"user_id"`
	Tags        []string `json:"tags"`
	Currency    string   `json:"currency"`
	CreatedAt   string   `json:"created_at"`
}

// ExportJSON renders the user's filtered expenses as an indented JSON array.
func (s *Service) ExportJSON(userID int64, filters expense.ExpenseFilters) (string, error) {
	exps, err := s.load(userID, filters)
	if err != nil {
		return "", err
	}

	out := make([]exportedExpense, 0, len(exps))
	for _, dm := range exps {
		e := expense.FromDataModel(dm)
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, exportedExpense{
			ID:          e.ID,
			Amount:      e.Amount.String(),
			Date:        dates.Format(e.Date),
			Description: e.Description,
			CategoryID:  e.CategoryID,
			UserID:      e.UserID,
			Tags:        tags,
			Currency:    e.Currency,
			CreatedAt:   e.CreatedAt.UTC().Format(timestampLayout),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", errors.NewInternalError("failed to encode export", err)
	}
	return string(data), nil
}

func (s *Service) load(userID int64, filters expense.ExpenseFilters) ([]*expenseDatamodel.Expense, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	exps, err := s.expenses.Search(userID, filters)
	if err != nil {
		s.logger.Error("failed to load expenses for export", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to export expenses", err)
	}
	return exps, nil
}

func escapeField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return quoteField(field)
	}
	return field
}

func quoteField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func formatCategoryID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func currencyOrDefault(cur string) string {
	if cur == "" {
		return expense.DefaultCurrency
	}
	return cur
}
