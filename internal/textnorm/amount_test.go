package textnorm

import (
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseAmount", func() {
	DescribeTable("accepted notations",
		func(token, want string) {
			got, err := ParseAmount(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Equal(decimal.RequireFromString(want))).To(BeTrue(), "got %s", got)
		},
		Entry("currency prefixed", "R$ 123,45", "123.45"),
		Entry("bare comma decimal", "123,45", "123.45"),
		Entry("pt-BR thousands", "1.234,56", "1234.56"),
		Entry("dot decimal with thousands", "1,234.56", "1234.56"),
		Entry("dot decimal", "1234.56", "1234.56"),
		Entry("leading minus", "-12,30", "-12.30"),
		Entry("trailing minus", "12,30-", "-12.30"),
		Entry("minus after currency", "R$ -0,99", "-0.99"),
		Entry("thousands only", "1.234", "1234"),
		Entry("zero integer part", "0,123", "0.123"),
		Entry("integer", "42", "42"),
	)

	DescribeTable("rejected tokens",
		func(token string) {
			_, err := ParseAmount(token)
			Expect(err).To(MatchError(ErrNotAmount))
		},
		Entry("empty", ""),
		Entry("currency only", "R$"),
		Entry("letters", "abc"),
		Entry("mixed separators", "1.2.3,4,5"),
	)

	It("gives the same value with or without the currency symbol", func() {
		a, err := ParseAmount("R$ 123,45")
		Expect(err).NotTo(HaveOccurred())
		b, err := ParseAmount("123,45")
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Equal(b)).To(BeTrue())
	})
})

var _ = Describe("CanonicalAmount", func() {
	It("renders dot-decimal text", func() {
		Expect(CanonicalAmount("-1.234,56")).To(Equal("-1234.56"))
	})

	It("fails on garbage", func() {
		_, err := CanonicalAmount("n/a")
		Expect(err).To(HaveOccurred())
	})
})
