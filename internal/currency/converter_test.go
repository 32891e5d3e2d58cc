package currency_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/adeharia/finance-tracker/internal/currency"
)

func TestCurrency(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Currency Suite")
}

var _ = Describe("Convert", func() {
	It("should convert from the USD base", func() {
		result, err := currency.Convert(decimal.NewFromInt(100), "USD", "EUR")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StringFixed(2)).To(Equal("85.00"))
	})

	It("should convert back to the USD base with rounding", func() {
		result, err := currency.Convert(decimal.NewFromInt(100), "EUR", "USD")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StringFixed(2)).To(Equal("117.65"))
	})

	It("should convert between two non-USD currencies via USD", func() {
		// 100 EUR -> USD -> GBP: 100 / 0.85 * 0.73
		result, err := currency.Convert(decimal.NewFromInt(100), "EUR", "GBP")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StringFixed(2)).To(Equal("85.88"))
	})

	It("should return the amount unchanged for same-currency conversions", func() {
		amount := decimal.NewFromFloat(123.456)
		result, err := currency.Convert(amount, "USD", "USD")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Equal(amount)).To(BeTrue())
	})

	It("should normalize case and whitespace", func() {
		result, err := currency.Convert(decimal.NewFromInt(100), " usd ", "eur")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StringFixed(2)).To(Equal("85.00"))
	})

	It("should reject negative amounts", func() {
		_, err := currency.Convert(decimal.NewFromInt(-5), "USD", "EUR")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("negative"))
	})

	It("should reject unsupported source currencies", func() {
		_, err := currency.Convert(decimal.NewFromInt(100), "XXX", "USD")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("XXX"))
	})

	It("should reject unsupported target currencies", func() {
		_, err := currency.Convert(decimal.NewFromInt(100), "USD", "XXX")
		Expect(err).To(HaveOccurred())
	})

	It("should convert zero to zero", func() {
		result, err := currency.Convert(decimal.Zero, "USD", "JPY")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.IsZero()).To(BeTrue())
	})
})

var _ = Describe("GetRate", func() {
	It("should return one for same-currency pairs", func() {
		rate, err := currency.GetRate("EUR", "EUR")
		Expect(err).NotTo(HaveOccurred())
		Expect(rate.Equal(decimal.NewFromInt(1))).To(BeTrue())
	})

	It("should return the base rate from USD", func() {
		rate, err := currency.GetRate("USD", "JPY")
		Expect(err).NotTo(HaveOccurred())
		Expect(rate.Equal(decimal.NewFromFloat(110.0))).To(BeTrue())
	})

	It("should derive cross rates through USD", func() {
		rate, err := currency.GetRate("EUR", "GBP")
		Expect(err).NotTo(HaveOccurred())
		Expect(rate.Round(4).StringFixed(4)).To(Equal("0.8588"))
	})

	It("should reject unsupported currencies", func() {
		_, err := currency.GetRate("USD", "XYZ")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Supported", func() {
	It("should list codes sorted", func() {
		codes := currency.Supported()
		Expect(codes).To(Equal([]string{"AUD", "CAD", "CHF", "CNY", "EUR", "GBP", "INR", "JPY", "USD"}))
	})

	It("should agree with IsSupported", func() {
		for _, code := range currency.Supported() {
			Expect(currency.IsSupported(code)).To(BeTrue())
		}
		Expect(currency.IsSupported("XXX")).To(BeFalse())
	})
})
