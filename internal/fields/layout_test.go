package fields

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joseph-ayodele/energy-invoices/constants"
	"github.com/joseph-ayodele/energy-invoices/internal/pdftext"
)

// words lays text out as one row of 10pt monospaced tokens starting at x.
func words(page int, x, y float64, text string) []pdftext.Token {
	var out []pdftext.Token
	for _, w := range strings.Fields(text) {
		width := float64(len(w)) * 6
		out = append(out, pdftext.Token{Text: w, X: x, Y: y, Width: width, FontSize: 10, Page: page})
		x += width + 6
	}
	return out
}

func tokens(rows ...[]pdftext.Token) []pdftext.Token {
	var out []pdftext.Token
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

var _ = Describe("FindValueByPosition", func() {
	var (
		toks   []pdftext.Token
		field  constants.Field
		opts   LayoutOptions
		result Amount
	)

	BeforeEach(func() {
		field = constants.FieldEnergyMUC
		opts = DefaultLayoutOptions()
	})

	JustBeforeEach(func() {
		result = FindValueByPosition(toks, label(field), DefaultLabels(), opts)
	})

	When("the value is right of the label", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 300, 700, "117,00"),
			)
		})

		It("should find it", func() {
			Expect(result).To(beValue("117.00"))
			Expect(result.Source).To(Equal(SourceLayout))
			Expect(result.Raw).To(Equal("117,00"))
		})
	})

	DescribeTable("a minus sign split from the amount",
		func(value, want, raw string) {
			result = FindValueByPosition(tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 300, 700, value),
			), label(field), DefaultLabels(), opts)
			Expect(result).To(beValue(want))
			Expect(result.Raw).To(Equal(raw))
		},
		Entry("bare minus", "- 117,00", "-117.00", "-117,00"),
		Entry("minus before the currency", "- R$ 117,00", "-117.00", "-117,00"),
		Entry("minus glued to the currency", "-R$ 117,00", "-117.00", "-117,00"),
		Entry("minus already on the amount", "-117,00", "-117.00", "-117,00"),
	)

	It("should read a minus between two amounts as a separator", func() {
		row := newTokenRow(words(1, 0, 700, "50,00 - 117,00"))
		Expect(row.detachedMinus(2)).To(BeFalse())
		Expect(newTokenRow(words(1, 0, 700, "Saldo - 117,00")).detachedMinus(2)).To(BeTrue())
	})

	When("the value is just below the label", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 60, 686, "R$117,00"),
			)
		})

		It("should find it", func() {
			Expect(result).To(beValue("117.00"))
		})
	})

	When("the value is too far below", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 60, 600, "117,00"),
			)
		})

		It("should be absent", func() {
			Expect(result.Status).To(Equal(Absent))
		})
	})

	When("several values qualify", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 250, 700, "20,00"),
				words(1, 400, 700, "50,00"),
			)
		})

		It("should take the nearest", func() {
			Expect(result).To(beValue("20.00"))
		})
	})

	When("two values are equally near", func() {
		BeforeEach(func() {
			// the label ends at x=184; one value 14pt to the right, one 14pt below
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 198, 700, "11,11"),
				words(1, 100, 686, "22,22"),
			)
		})

		It("should prefer the smaller horizontal distance", func() {
			Expect(result).To(beValue("22.22"))
		})
	})

	When("the page has a value column", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 390, 740, "Valor (R$)"),
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 250, 700, "0,78"),
				words(1, 400, 700, "117,00"),
			)
		})

		It("should take the value inside the column", func() {
			Expect(result).To(beValue("117.00"))
		})

		Context("and the hint is disabled", func() {
			BeforeEach(func() {
				opts.ColumnHint = ""
			})

			It("should take the nearest value", func() {
				Expect(result).To(beValue("0.78"))
			})
		})
	})

	When("another label follows on the same row", func() {
		BeforeEach(func() {
			toks = words(1, 40, 700, "Energia Atv Injetada mUC Energia Atv Injetada oUC 20,00")
		})

		It("should leave the value to the other label", func() {
			Expect(result.Status).To(Equal(Absent))
		})

		Context("looking up the other label", func() {
			BeforeEach(func() {
				field = constants.FieldEnergyOUC
			})

			It("should find it", func() {
				Expect(result).To(beValue("20.00"))
			})
		})
	})

	When("the row below belongs to another label", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(1, 40, 686, "Energia Atv Injetada oUC 20,00"),
			)
		})

		It("should not take its value", func() {
			Expect(result.Status).To(Equal(Absent))
		})
	})

	When("a quantity precedes the value", func() {
		BeforeEach(func() {
			toks = words(1, 40, 700, "Energia Atv Injetada mUC 150,00 kWh 117,00")
		})

		It("should skip the quantity", func() {
			Expect(result).To(beValue("117.00"))
		})
	})

	When("the value is on another page", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 40, 700, "Energia Atv Injetada mUC"),
				words(2, 300, 700, "117,00"),
			)
		})

		It("should be absent", func() {
			Expect(result.Status).To(Equal(Absent))
		})
	})

	When("tokens arrive out of order", func() {
		BeforeEach(func() {
			toks = tokens(
				words(1, 300, 701, "117,00"),
				words(1, 40, 500, "rodapé"),
				words(1, 40, 700, "Energia Atv Injetada mUC"),
			)
		})

		It("should group them by row", func() {
			Expect(result).To(beValue("117.00"))
		})
	})
})

var _ = Describe("LayoutStrategy", func() {
	It("should be absent without tokens", func() {
		s, err := NewLayoutStrategy(DefaultLabels(), DefaultLayoutOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name()).To(Equal(SourceLayout))
		Expect(s.Find(Source{Lines: []string{"Energia Atv Injetada mUC 1,00"}}, label(constants.FieldEnergyMUC))).To(Equal(Amount{}))
	})

	It("should reject an invalid column hint", func() {
		_, err := NewLayoutStrategy(DefaultLabels(), LayoutOptions{ColumnHint: "("})
		Expect(err).To(HaveOccurred())
	})
})
