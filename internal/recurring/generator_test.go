package recurring_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/recurring"
)

type mockTemplateStore struct {
	templates   []*recurring.RecurringExpense
	findError   error
	updateError error
	updateCalls int
}

func (m *mockTemplateStore) FindActiveByUser(userID int64, asOf time.Time) ([]*recurring.RecurringExpense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	asOf = dates.Day(asOf)
	result := []*recurring.RecurringExpense{}
	for _, rec := range m.templates {
		if rec.UserID == userID && rec.ActiveOn(asOf) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockTemplateStore) Update(rec *recurring.RecurringExpense) error {
	m.updateCalls++
	return m.updateError
}

type mockExpenseStore struct {
	expenses    []*expenseDatamodel.Expense
	createError error
	findError   error
	failAfter   int // fail Create once this many records exist; 0 disables
	createCalls int
	nextID      int64
}

func (m *mockExpenseStore) Create(exp *expenseDatamodel.Expense) error {
	m.createCalls++
	if m.createError != nil {
		return m.createError
	}
	if m.failAfter > 0 && len(m.expenses) >= m.failAfter {
		return errors.New("database error")
	}
	m.nextID++
	exp.ID = m.nextID
	m.expenses = append(m.expenses, exp)
	return nil
}

func (m *mockExpenseStore) FindByUser(userID int64) ([]*expenseDatamodel.Expense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	result := []*expenseDatamodel.Expense{}
	for _, exp := range m.expenses {
		if exp.UserID == userID {
			result = append(result, exp)
		}
	}
	return result, nil
}

var _ = Describe("Generator", func() {
	var (
		generator     *recurring.Generator
		templateStore *mockTemplateStore
		expenseStore  *mockExpenseStore
		logger        *slog.Logger
		ctx           context.Context
		userID        int64
	)

	upTo := func(year int, month time.Month, day int) *time.Time {
		d := dates.New(year, month, day)
		return &d
	}

	expenseDates := func() []string {
		result := []string{}
		for _, exp := range expenseStore.expenses {
			result = append(result, dates.Format(exp.Date))
		}
		return result
	}

	BeforeEach(func() {
		templateStore = &mockTemplateStore{}
		expenseStore = &mockExpenseStore{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		generator = recurring.NewGenerator(templateStore, expenseStore, nil, logger)
		ctx = context.Background()
		userID = int64(1)
	})

	Describe("Generate", func() {
		Context("with a weekly template", func() {
			BeforeEach(func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(50),
					Description: "Gym membership",
					Frequency:   recurring.FrequencyWeekly,
					StartDate:   dates.New(2025, time.January, 1),
				}}
			})

			It("should create one expense per elapsed week and advance the cursor past the target", func() {
				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 15))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(3))
				Expect(expenseDates()).To(Equal([]string{"2025-01-01", "2025-01-08", "2025-01-15"}))
				Expect(templateStore.templates[0].NextOccurrence).To(Equal(dates.New(2025, time.January, 22)))
			})

			It("should copy template fields onto each generated expense", func() {
				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Expenses).To(HaveLen(1))
				exp := result.Expenses[0]
				Expect(exp.UserID).To(Equal(userID))
				Expect(exp.Amount.Equal(decimal.NewFromInt(50))).To(BeTrue())
				Expect(exp.Description).To(Equal("Gym membership"))
			})
		})

		Context("with a monthly template bounded by an end date", func() {
			BeforeEach(func() {
				end := dates.New(2025, time.December, 31)
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromFloat(99.99),
					Description: "Streaming subscription",
					Frequency:   recurring.FrequencyMonthly,
					StartDate:   dates.New(2025, time.January, 1),
					EndDate:     &end,
				}}
			})

			It("should create one expense per elapsed month", func() {
				result, err := generator.Generate(ctx, userID, upTo(2025, time.February, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(2))
				Expect(expenseDates()).To(Equal([]string{"2025-01-01", "2025-02-01"}))
			})

			It("should create nothing on a second run over the same range", func() {
				_, err := generator.Generate(ctx, userID, upTo(2025, time.February, 1))
				Expect(err).NotTo(HaveOccurred())

				// The cursor already advanced, so rewind it to prove the
				// duplicate check alone prevents double generation.
				templateStore.templates[0].NextOccurrence = dates.New(2025, time.January, 1)

				result, err := generator.Generate(ctx, userID, upTo(2025, time.February, 1))
				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(0))
				Expect(expenseStore.expenses).To(HaveLen(2))
			})

			It("should resume from the persisted cursor instead of the start date", func() {
				_, err := generator.Generate(ctx, userID, upTo(2025, time.February, 1))
				Expect(err).NotTo(HaveOccurred())
				Expect(templateStore.templates[0].NextOccurrence).To(Equal(dates.New(2025, time.March, 1)))

				result, err := generator.Generate(ctx, userID, upTo(2025, time.April, 1))
				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(2))
				Expect(expenseDates()).To(Equal([]string{
					"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01",
				}))
			})

			It("should not generate past the end date", func() {
				// Targeting the end date itself: the walk covers the whole
				// year but stops once the next occurrence would lapse.
				result, err := generator.Generate(ctx, userID, upTo(2025, time.December, 31))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(12))
				Expect(expenseDates()[11]).To(Equal("2025-12-01"))
				// The cursor parks on the last in-range occurrence.
				Expect(templateStore.templates[0].NextOccurrence).To(Equal(dates.New(2025, time.December, 1)))
			})
		})

		Context("with a template starting after the target date", func() {
			BeforeEach(func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(25),
					Description: "Future subscription",
					Frequency:   recurring.FrequencyMonthly,
					StartDate:   dates.New(2025, time.March, 1),
				}}
			})

			It("should skip the template without touching the stores", func() {
				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(0))
				Expect(expenseStore.createCalls).To(Equal(0))
				Expect(templateStore.updateCalls).To(Equal(0))
			})
		})

		Context("with an occurrence ending exactly on the boundary", func() {
			It("should include an occurrence landing on the end date", func() {
				end := dates.New(2025, time.February, 28)
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   recurring.FrequencyMonthly,
					StartDate:   dates.New(2025, time.January, 31),
					EndDate:     &end,
				}}

				// The end date is a valid target and its occurrence counts.
				result, err := generator.Generate(ctx, userID, upTo(2025, time.February, 28))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(2))
				Expect(expenseDates()).To(Equal([]string{"2025-01-31", "2025-02-28"}))
			})
		})

		Context("when the month-end clamp compounds", func() {
			It("should walk Jan 31, Feb 28, Mar 28", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   recurring.FrequencyMonthly,
					StartDate:   dates.New(2025, time.January, 31),
				}}

				result, err := generator.Generate(ctx, userID, upTo(2025, time.March, 31))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(3))
				Expect(expenseDates()).To(Equal([]string{"2025-01-31", "2025-02-28", "2025-03-28"}))
			})
		})

		Context("when an identical expense already exists", func() {
			categoryID := int64(7)

			BeforeEach(func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(50),
					Description: "Gym membership",
					CategoryID:  &categoryID,
					Frequency:   recurring.FrequencyWeekly,
					StartDate:   dates.New(2025, time.January, 1),
				}}
			})

			It("should skip the matching date and fill the gaps", func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{{
					ID:          99,
					UserID:      userID,
					Amount:      decimal.NewFromInt(50),
					Description: "Gym membership",
					CategoryID:  &categoryID,
					Date:        dates.New(2025, time.January, 8),
				}}

				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 15))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(2))
				Expect(expenseStore.expenses).To(HaveLen(3))
			})

			It("should still create when only the category differs", func() {
				otherCategory := int64(8)
				expenseStore.expenses = []*expenseDatamodel.Expense{{
					ID:          99,
					UserID:      userID,
					Amount:      decimal.NewFromInt(50),
					Description: "Gym membership",
					CategoryID:  &otherCategory,
					Date:        dates.New(2025, time.January, 1),
				}}

				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(1))
			})

			It("should still create when only the amount differs", func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{{
					ID:          99,
					UserID:      userID,
					Amount:      decimal.NewFromInt(55),
					Description: "Gym membership",
					CategoryID:  &categoryID,
					Date:        dates.New(2025, time.January, 1),
				}}

				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(1))
			})
		})

		Context("with a runaway daily template", func() {
			It("should stop at the iteration cap and persist a resumable cursor", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(1),
					Description: "Coffee",
					Frequency:   recurring.FrequencyDaily,
					StartDate:   dates.New(2020, time.January, 1),
				}}

				result, err := generator.Generate(ctx, userID, upTo(2030, time.January, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(1000))
				Expect(templateStore.templates[0].NextOccurrence).To(Equal(
					dates.New(2020, time.January, 1).AddDate(0, 0, 1000)))
				Expect(templateStore.updateCalls).To(Equal(1))
			})
		})

		Context("when the cursor is already past the target", func() {
			It("should create nothing but still persist the cursor", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:             1,
					UserID:         userID,
					Amount:         decimal.NewFromInt(10),
					Description:    "Rent",
					Frequency:      recurring.FrequencyMonthly,
					StartDate:      dates.New(2025, time.January, 1),
					NextOccurrence: dates.New(2025, time.June, 1),
				}}

				result, err := generator.Generate(ctx, userID, upTo(2025, time.March, 1))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(0))
				Expect(templateStore.updateCalls).To(Equal(1))
				Expect(templateStore.templates[0].NextOccurrence).To(Equal(dates.New(2025, time.June, 1)))
			})
		})

		Context("when the expense store fails mid-walk", func() {
			It("should abort without rolling back already created records", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(50),
					Description: "Gym membership",
					Frequency:   recurring.FrequencyWeekly,
					StartDate:   dates.New(2025, time.January, 1),
				}}
				expenseStore.failAfter = 2

				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 29))

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
				Expect(expenseStore.expenses).To(HaveLen(2))
			})

			It("should recover on the next run thanks to the duplicate check", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(50),
					Description: "Gym membership",
					Frequency:   recurring.FrequencyWeekly,
					StartDate:   dates.New(2025, time.January, 1),
				}}
				expenseStore.failAfter = 2

				_, err := generator.Generate(ctx, userID, upTo(2025, time.January, 29))
				Expect(err).To(HaveOccurred())

				expenseStore.failAfter = 0
				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 29))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(3))
				Expect(expenseDates()).To(Equal([]string{
					"2025-01-01", "2025-01-08", "2025-01-15", "2025-01-22", "2025-01-29",
				}))
			})
		})

		Context("when the template lookup fails", func() {
			It("should return the error", func() {
				templateStore.findError = errors.New("database error")

				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 1))

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
			})
		})

		Context("when persisting the cursor fails", func() {
			It("should return the error", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   recurring.FrequencyMonthly,
					StartDate:   dates.New(2025, time.January, 1),
				}}
				templateStore.updateError = errors.New("database error")

				_, err := generator.Generate(ctx, userID, upTo(2025, time.January, 1))

				Expect(err).To(HaveOccurred())
			})
		})

		Context("with multiple templates for one user", func() {
			It("should generate for each of them", func() {
				end := dates.New(2025, time.December, 31)
				templateStore.templates = []*recurring.RecurringExpense{
					{
						ID:          1,
						UserID:      userID,
						Amount:      decimal.NewFromInt(1200),
						Description: "Rent",
						Frequency:   recurring.FrequencyMonthly,
						StartDate:   dates.New(2025, time.January, 1),
						EndDate:     &end,
					},
					{
						ID:          2,
						UserID:      userID,
						Amount:      decimal.NewFromInt(15),
						Description: "Streaming subscription",
						Frequency:   recurring.FrequencyWeekly,
						StartDate:   dates.New(2025, time.January, 1),
					},
				}

				result, err := generator.Generate(ctx, userID, upTo(2025, time.January, 15))

				Expect(err).NotTo(HaveOccurred())
				// one monthly occurrence plus three weekly ones
				Expect(result.GeneratedCount).To(Equal(4))
			})
		})

		Context("without an explicit target date", func() {
			It("should default to today", func() {
				templateStore.templates = []*recurring.RecurringExpense{{
					ID:          1,
					UserID:      userID,
					Amount:      decimal.NewFromInt(5),
					Description: "Coffee",
					Frequency:   recurring.FrequencyDaily,
					StartDate:   dates.Today(),
				}}

				result, err := generator.Generate(ctx, userID, nil)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.GeneratedCount).To(Equal(1))
				Expect(dates.SameDay(expenseStore.expenses[0].Date, dates.Today())).To(BeTrue())
			})
		})
	})
})
