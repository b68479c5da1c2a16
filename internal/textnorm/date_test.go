package textnorm

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joseph-ayodele/energy-invoices/constants"
)

var _ = Describe("FormatMonthYear", func() {
	It("formats every month of a year", func() {
		for m := 1; m <= 12; m++ {
			got := FormatMonthYear(fmt.Sprintf("%02d/2024", m))
			Expect(got).To(Equal(constants.MonthAbbreviations[m-1] + "/24"))
		}
	})

	DescribeTable("conversions",
		func(in, want string) {
			Expect(FormatMonthYear(in)).To(Equal(want))
		},
		Entry("october", "10/2024", "OUT/24"),
		Entry("single digit month", "1/2023", "JAN/23"),
		Entry("spaced", " 12 / 2019 ", "DEZ/19"),
		Entry("iso style", "2024-10", ""),
		Entry("empty", "", ""),
		Entry("month out of range", "13/2024", ""),
		Entry("month zero", "00/2024", ""),
		Entry("two digit year", "10/24", ""),
	)

	It("is deterministic", func() {
		Expect(FormatMonthYear("07/2025")).To(Equal(FormatMonthYear("07/2025")))
	})
})

var _ = Describe("MonthYear", func() {
	It("pads the month", func() {
		Expect(MonthYear(3, 2024)).To(Equal("03/2024"))
	})

	It("rejects invalid parts", func() {
		Expect(MonthYear(13, 2024)).To(Equal(""))
		Expect(MonthYear(1, 24)).To(Equal(""))
	})
})
