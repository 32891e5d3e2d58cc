package recurring_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/recurring"
)

type mockRecurringRepository struct {
	templates   map[int64]*recurring.RecurringExpense
	createError error
	getError    error
	updateError error
	deleteError error
	nextID      int64
}

func newMockRecurringRepository() *mockRecurringRepository {
	return &mockRecurringRepository{
		templates: make(map[int64]*recurring.RecurringExpense),
		nextID:    1,
	}
}

func (m *mockRecurringRepository) Create(rec *recurring.RecurringExpense) error {
	if m.createError != nil {
		return m.createError
	}
	rec.ID = m.nextID
	m.nextID++
	m.templates[rec.ID] = rec
	return nil
}

func (m *mockRecurringRepository) GetByID(id int64) (*recurring.RecurringExpense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.templates[id], nil
}

func (m *mockRecurringRepository) FindByUser(userID int64) ([]*recurring.RecurringExpense, error) {
	result := []*recurring.RecurringExpense{}
	for _, rec := range m.templates {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockRecurringRepository) FindActiveByUser(userID int64, asOf time.Time) ([]*recurring.RecurringExpense, error) {
	result := []*recurring.RecurringExpense{}
	for _, rec := range m.templates {
		if rec.UserID == userID && rec.ActiveOn(asOf) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockRecurringRepository) Update(rec *recurring.RecurringExpense) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.templates[rec.ID] = rec
	return nil
}

func (m *mockRecurringRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.templates, id)
	return nil
}

func (m *mockRecurringRepository) UserIDsWithTemplates() ([]int64, error) {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, rec := range m.templates {
		if !seen[rec.UserID] {
			seen[rec.UserID] = true
			ids = append(ids, rec.UserID)
		}
	}
	return ids, nil
}

var _ = Describe("RecurringService", func() {
	var (
		service  *recurring.Service
		mockRepo *mockRecurringRepository
		userID   int64
	)

	BeforeEach(func() {
		mockRepo = newMockRecurringRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = recurring.NewService(mockRepo, logger)
		userID = int64(1)
	})

	Describe("CreateRecurringExpense", func() {
		Context("with a valid template", func() {
			It("should create it with the cursor on the start date", func() {
				dto := recurring.CreateRecurringExpenseDTO{
					Amount:      decimal.NewFromFloat(99.99),
					Description: "Streaming subscription",
					Frequency:   "monthly",
					StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
				}

				rec, err := service.CreateRecurringExpense(userID, dto)

				Expect(err).NotTo(HaveOccurred())
				Expect(rec.ID).To(BeNumerically(">", 0))
				Expect(rec.UserID).To(Equal(userID))
				Expect(rec.Frequency).To(Equal(recurring.FrequencyMonthly))
				Expect(rec.NextOccurrence).To(Equal(dates.New(2025, time.January, 1)))
			})

			It("should truncate the end date to a calendar day", func() {
				dto := recurring.CreateRecurringExpenseDTO{
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   "monthly",
					StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
					EndDate:     &dates.Date{Time: time.Date(2025, time.June, 30, 18, 30, 0, 0, time.UTC)},
				}

				rec, err := service.CreateRecurringExpense(userID, dto)

				Expect(err).NotTo(HaveOccurred())
				Expect(*rec.EndDate).To(Equal(dates.New(2025, time.June, 30)))
			})
		})

		Context("when validation fails", func() {
			It("should reject a non-positive amount", func() {
				dto := recurring.CreateRecurringExpenseDTO{
					Amount:      decimal.Zero,
					Description: "Rent",
					Frequency:   "monthly",
					StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
				}

				_, err := service.CreateRecurringExpense(userID, dto)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("amount"))
			})

			It("should reject an unknown frequency", func() {
				dto := recurring.CreateRecurringExpenseDTO{
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   "fortnightly",
					StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
				}

				_, err := service.CreateRecurringExpense(userID, dto)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("frequency"))
			})

			It("should reject an end date before the start date", func() {
				dto := recurring.CreateRecurringExpenseDTO{
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   "monthly",
					StartDate:   dates.Date{Time: dates.New(2025, time.June, 1)},
					EndDate:     &dates.Date{Time: dates.New(2025, time.January, 1)},
				}

				_, err := service.CreateRecurringExpense(userID, dto)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("when the repository fails", func() {
			It("should return the error", func() {
				mockRepo.createError = errors.New("database error")
				dto := recurring.CreateRecurringExpenseDTO{
					Amount:      decimal.NewFromInt(10),
					Description: "Rent",
					Frequency:   "monthly",
					StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
				}

				_, err := service.CreateRecurringExpense(userID, dto)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("UpdateRecurringExpense", func() {
		var rec *recurring.RecurringExpense

		BeforeEach(func() {
			var err error
			rec, err = service.CreateRecurringExpense(userID, recurring.CreateRecurringExpenseDTO{
				Amount:      decimal.NewFromInt(50),
				Description: "Gym membership",
				Frequency:   "monthly",
				StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
			})
			Expect(err).NotTo(HaveOccurred())

			// Simulate the generator having advanced the cursor.
			rec.NextOccurrence = dates.New(2025, time.May, 1)
			Expect(mockRepo.Update(rec)).To(Succeed())
		})

		It("should accept an update that sets no fields", func() {
			updated, err := service.UpdateRecurringExpense(rec.ID, userID, recurring.UpdateRecurringExpenseDTO{})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated).NotTo(BeNil())
			Expect(updated.Amount.Equal(decimal.NewFromInt(50))).To(BeTrue())
			Expect(updated.NextOccurrence).To(Equal(dates.New(2025, time.May, 1)))
		})

		It("should keep the cursor on a pure amount change", func() {
			amount := decimal.NewFromInt(60)
			updated, err := service.UpdateRecurringExpense(rec.ID, userID, recurring.UpdateRecurringExpenseDTO{
				Amount: &amount,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Amount.Equal(amount)).To(BeTrue())
			Expect(updated.NextOccurrence).To(Equal(dates.New(2025, time.May, 1)))
		})

		It("should rewind the cursor on a frequency change", func() {
			freq := "weekly"
			updated, err := service.UpdateRecurringExpense(rec.ID, userID, recurring.UpdateRecurringExpenseDTO{
				Frequency: &freq,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.NextOccurrence).To(Equal(dates.New(2025, time.January, 1)))
		})

		It("should rewind the cursor on a start date change", func() {
			start := dates.Date{Time: dates.New(2025, time.March, 1)}
			updated, err := service.UpdateRecurringExpense(rec.ID, userID, recurring.UpdateRecurringExpenseDTO{
				StartDate: &start,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.NextOccurrence).To(Equal(dates.New(2025, time.March, 1)))
		})

		It("should reject an end date that lands before the start date", func() {
			end := dates.Date{Time: dates.New(2024, time.June, 1)}
			_, err := service.UpdateRecurringExpense(rec.ID, userID, recurring.UpdateRecurringExpenseDTO{
				EndDate: &end,
			})

			Expect(err).To(HaveOccurred())
		})

		It("should refuse updates from another user", func() {
			amount := decimal.NewFromInt(60)
			_, err := service.UpdateRecurringExpense(rec.ID, int64(999), recurring.UpdateRecurringExpenseDTO{
				Amount: &amount,
			})

			Expect(err).To(MatchError(apperrors.ErrUnauthorizedAccess))
		})
	})

	Describe("DeleteRecurringExpense", func() {
		It("should delete an owned template", func() {
			rec, err := service.CreateRecurringExpense(userID, recurring.CreateRecurringExpenseDTO{
				Amount:      decimal.NewFromInt(10),
				Description: "Rent",
				Frequency:   "monthly",
				StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteRecurringExpense(rec.ID, userID)).To(Succeed())

			_, err = service.GetRecurringExpense(rec.ID, userID)
			Expect(err).To(MatchError(apperrors.ErrRecurringNotFound))
		})

		It("should return not found for an unknown template", func() {
			err := service.DeleteRecurringExpense(999, userID)
			Expect(err).To(MatchError(apperrors.ErrRecurringNotFound))
		})
	})

	Describe("GetExpensesDue", func() {
		BeforeEach(func() {
			_, err := service.CreateRecurringExpense(userID, recurring.CreateRecurringExpenseDTO{
				Amount:      decimal.NewFromInt(10),
				Description: "Rent",
				Frequency:   "monthly",
				StartDate:   dates.Date{Time: dates.New(2025, time.January, 1)},
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateRecurringExpense(userID, recurring.CreateRecurringExpenseDTO{
				Amount:      decimal.NewFromInt(20),
				Description: "Future subscription",
				Frequency:   "monthly",
				StartDate:   dates.Date{Time: dates.New(2025, time.June, 1)},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return templates whose cursor is on or before the date", func() {
			due, err := service.GetExpensesDue(userID, dates.New(2025, time.March, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(due).To(HaveLen(1))
			Expect(due[0].Description).To(Equal("Rent"))
		})

		It("should include templates starting exactly on the date", func() {
			due, err := service.GetExpensesDue(userID, dates.New(2025, time.June, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(due).To(HaveLen(2))
		})

		It("should exclude templates already generated past the date", func() {
			for _, rec := range mockRepo.templates {
				if rec.Description == "Rent" {
					rec.NextOccurrence = dates.New(2025, time.April, 1)
				}
			}

			due, err := service.GetExpensesDue(userID, dates.New(2025, time.March, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(due).To(BeEmpty())
		})
	})
})
