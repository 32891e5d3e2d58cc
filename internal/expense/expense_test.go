package expense_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/expense"
)

var _ = Describe("NormalizeTags", func() {
	It("should lowercase and trim", func() {
		Expect(expense.NormalizeTags([]string{" Food ", "WORK"})).To(Equal([]string{"food", "work"}))
	})

	It("should dedupe preserving first-seen order", func() {
		Expect(expense.NormalizeTags([]string{"b", "a", "B", "a"})).To(Equal([]string{"b", "a"}))
	})

	It("should drop empty entries", func() {
		Expect(expense.NormalizeTags([]string{"", "  ", "food"})).To(Equal([]string{"food"}))
	})

	It("should return nil when nothing survives", func() {
		Expect(expense.NormalizeTags([]string{"", "  "})).To(BeNil())
		Expect(expense.NormalizeTags(nil)).To(BeNil())
	})
})

var _ = Describe("HasTag", func() {
	It("should match case-insensitively", func() {
		e := &expense.Expense{Tags: []string{"food", "work"}}
		Expect(e.HasTag("FOOD")).To(BeTrue())
		Expect(e.HasTag(" work ")).To(BeTrue())
		Expect(e.HasTag("travel")).To(BeFalse())
	})
})

var _ = Describe("Data model conversion", func() {
	It("should round-trip tags through the joined column", func() {
		e := &expense.Expense{
			UserID:      1,
			Amount:      decimal.NewFromInt(10),
			Description: "Lunch",
			Date:        dates.New(2025, time.March, 10),
			Tags:        []string{"food", "work"},
		}

		dm := expense.ToDataModel(e)
		Expect(dm.Tags).To(Equal("food,work"))

		back := expense.FromDataModel(dm)
		Expect(back.Tags).To(Equal([]string{"food", "work"}))
	})

	It("should default a missing currency to USD", func() {
		e := &expense.Expense{
			UserID:      1,
			Amount:      decimal.NewFromInt(10),
			Description: "Lunch",
			Date:        dates.New(2025, time.March, 10),
		}

		dm := expense.ToDataModel(e)
		Expect(dm.Currency).To(Equal(expense.DefaultCurrency))
	})

	It("should translate an empty tags column to nil", func() {
		e := &expense.Expense{
			UserID:      1,
			Amount:      decimal.NewFromInt(10),
			Description: "Lunch",
			Date:        dates.New(2025, time.March, 10),
		}

		back := expense.FromDataModel(expense.ToDataModel(e))
		Expect(back.Tags).To(BeNil())
	})
})

var _ = Describe("ExpenseFilters", func() {
	Describe("Validate", func() {
		It("should accept an empty filter", func() {
			Expect(expense.ExpenseFilters{}.Validate()).To(BeNil())
		})

		It("should reject an inverted date range", func() {
			start := dates.New(2025, time.June, 1)
			end := dates.New(2025, time.January, 1)
			err := expense.ExpenseFilters{StartDate: &start, EndDate: &end}.Validate()
			Expect(err).NotTo(BeNil())
		})

		It("should reject an inverted amount range", func() {
			min := decimal.NewFromInt(100)
			max := decimal.NewFromInt(10)
			err := expense.ExpenseFilters{MinAmount: &min, MaxAmount: &max}.Validate()
			Expect(err).NotTo(BeNil())
		})

		It("should accept equal bounds", func() {
			d := dates.New(2025, time.June, 1)
			amt := decimal.NewFromInt(10)
			err := expense.ExpenseFilters{
				StartDate: &d, EndDate: &d,
				MinAmount: &amt, MaxAmount: &amt,
			}.Validate()
			Expect(err).To(BeNil())
		})
	})

	Describe("SortColumn", func() {
		It("should map known keys to columns", func() {
			Expect(expense.ExpenseFilters{SortBy: "date"}.SortColumn()).To(Equal("expense_date"))
			Expect(expense.ExpenseFilters{SortBy: "amount"}.SortColumn()).To(Equal("amount"))
		})

		It("should fall back to the date column for unknown keys", func() {
			Expect(expense.ExpenseFilters{SortBy: "user_id; DROP TABLE"}.SortColumn()).To(Equal("expense_date"))
			Expect(expense.ExpenseFilters{}.SortColumn()).To(Equal("expense_date"))
		})
	})

	Describe("SortDirection", func() {
		It("should default to descending", func() {
			Expect(expense.ExpenseFilters{}.SortDirection()).To(Equal("DESC"))
			Expect(expense.ExpenseFilters{SortOrder: "banana"}.SortDirection()).To(Equal("DESC"))
		})

		It("should honor ascending", func() {
			Expect(expense.ExpenseFilters{SortOrder: "asc"}.SortDirection()).To(Equal("ASC"))
		})
	})
})
