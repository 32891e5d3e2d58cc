package validation_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	Describe("Required", func() {
		It("should reject empty and whitespace-only strings", func() {
			v := validation.NewValidator()
			v.Field("name", "   ").Required()
			Expect(v.Validate()).NotTo(BeNil())
		})

		It("should reject a zero int64", func() {
			v := validation.NewValidator()
			v.Field("category_id", int64(0)).Required()
			Expect(v.Validate()).NotTo(BeNil())
		})

		It("should reject a zero time", func() {
			v := validation.NewValidator()
			v.Field("date", time.Time{}).Required()
			Expect(v.Validate()).NotTo(BeNil())
		})

		It("should accept populated values", func() {
			v := validation.NewValidator()
			v.Field("name", "groceries").Required()
			v.Field("category_id", int64(3)).Required()
			Expect(v.Validate()).To(BeNil())
		})
	})

	Describe("PositiveAmount", func() {
		It("should reject zero and negative amounts", func() {
			v := validation.NewValidator()
			v.Field("amount", decimal.Zero).PositiveAmount()
			Expect(v.Validate()).NotTo(BeNil())

			v = validation.NewValidator()
			v.Field("amount", decimal.NewFromInt(-1)).PositiveAmount()
			Expect(v.Validate()).NotTo(BeNil())
		})

		It("should accept positive amounts", func() {
			v := validation.NewValidator()
			v.Field("amount", decimal.NewFromFloat(0.01)).PositiveAmount()
			Expect(v.Validate()).To(BeNil())
		})
	})

	Describe("NonNegativeAmount", func() {
		It("should accept nil and zero", func() {
			zero := decimal.Zero
			v := validation.NewValidator()
			v.Field("budget_limit", (*decimal.Decimal)(nil)).NonNegativeAmount()
			v.Field("budget_limit", &zero).NonNegativeAmount()
			Expect(v.Validate()).To(BeNil())
		})

		It("should reject negatives", func() {
			neg := decimal.NewFromInt(-5)
			v := validation.NewValidator()
			v.Field("budget_limit", &neg).NonNegativeAmount()
			Expect(v.Validate()).NotTo(BeNil())
		})
	})

	Describe("length bounds", func() {
		It("should enforce MaxLength", func() {
			v := validation.NewValidator()
			v.Field("description", "abcdef").MaxLength(5)
			Expect(v.Validate()).NotTo(BeNil())
		})

		It("should enforce MinLength on non-empty strings only", func() {
			v := validation.NewValidator()
			v.Field("password", "short").MinLength(8)
			Expect(v.Validate()).NotTo(BeNil())

			// an empty value is Required's business, not MinLength's
			v = validation.NewValidator()
			v.Field("password", "").MinLength(8)
			Expect(v.Validate()).To(BeNil())
		})
	})

	Describe("OneOf", func() {
		It("should accept listed values and reject others", func() {
			v := validation.NewValidator()
			v.Field("frequency", "monthly").OneOf([]string{"daily", "monthly"}, errors.ErrCodeInvalidFrequency)
			Expect(v.Validate()).To(BeNil())

			v = validation.NewValidator()
			v.Field("frequency", "hourly").OneOf([]string{"daily", "monthly"}, errors.ErrCodeInvalidFrequency)
			Expect(v.Validate()).NotTo(BeNil())
		})
	})

	It("should collect errors across fields", func() {
		v := validation.NewValidator()
		v.Field("name", "").Required()
		v.Field("amount", decimal.Zero).PositiveAmount()

		err := v.Validate()
		Expect(err).NotTo(BeNil())
		details, ok := err.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
	})
})

var _ = Describe("ValidateDateRange", func() {
	It("should allow a nil end", func() {
		Expect(validation.ValidateDateRange("end_date", time.Now(), nil)).To(BeNil())
	})

	It("should allow end on or after start", func() {
		start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		Expect(validation.ValidateDateRange("end_date", start, &start)).To(BeNil())
	})

	It("should reject end before start", func() {
		start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		Expect(validation.ValidateDateRange("end_date", start, &end)).NotTo(BeNil())
	})
})
