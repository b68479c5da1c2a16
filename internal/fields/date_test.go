package fields

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FindDate", func() {
	DescribeTable("reference month",
		func(lines []string, window int, want string) {
			Expect(FindDate(lines, DefaultLabels(), window)).To(Equal(want))
		},
		Entry("billing cycle code", []string{"Matrícula 3001234567-2024-10-1", "Outubro/2023"}, 2, "10/2024"),
		Entry("month name", []string{"Referente a Outubro / 2024"}, 2, "10/2024"),
		Entry("month name with accent", []string{"Conta de Março de 2023"}, 2, "03/2023"),
		Entry("abbreviated months are not reference months",
			[]string{"Histórico OUT/2023 SET/2023", "Energia Atv Injetada mUC 10/2024 R$ 117,00"}, 2, "10/2024"),
		Entry("latest month near a credit label",
			[]string{"Leitura 12/2024", "a", "b", "Energia Atv Injetada mUC 09/2024 117,00", "10/2024"}, 2, "10/2024"),
		Entry("month before the credit label",
			[]string{"Ref 09/2024", "Energia Atv Injetada mUC R$ 1,00", "a", "b", "Próxima leitura 12/2024"}, 2, "09/2024"),
		Entry("window limits the label neighbourhood",
			[]string{"Leitura 12/2024", "a", "b", "Energia Atv Injetada mUC 09/2024 117,00", "10/2024"}, 0, "09/2024"),
		Entry("latest month anywhere", []string{"Leitura 08/2024", "Emissão 9/2024"}, 2, "09/2024"),
		Entry("full dates are not months", []string{"Vencimento 2024-05-12"}, 2, ""),
		Entry("nothing", []string{"sem data"}, 2, ""),
	)

	It("should find every month on a line", func() {
		Expect(allNumericMonths("01/2024 02/2024 12/2023")).To(Equal([][2]string{
			{"01", "2024"}, {"02", "2024"}, {"12", "2023"},
		}))
	})
})

var _ = Describe("FindConsumerUnit", func() {
	DescribeTable("identifier",
		func(lines []string, want string) {
			Expect(FindConsumerUnit(lines)).To(Equal(want))
		},
		Entry("labeled", []string{"Unidade Consumidora: 3012345678"}, "3012345678"),
		Entry("short label", []string{"UC 12345678"}, "12345678"),
		Entry("numbered label", []string{"Nº da UC: 3012345678"}, "3012345678"),
		Entry("label on its own line", []string{"UNIDADE CONSUMIDORA", "3012345678 Rua das Flores"}, "3012345678"),
		Entry("client code block", []string{"Código do Cliente", "10/108132-2"}, "10/108132-2"),
		Entry("installation code block", []string{"Código da Instalação", "3012345678"}, "3012345678"),
		Entry("last slashed code", []string{"ref 1/2345-6", "outro 10/108132-2"}, "10/108132-2"),
		Entry("credit amount is not a unit", []string{"Energia Atv Injetada m UC 1234,56"}, ""),
		Entry("nothing", []string{"sem unidade"}, ""),
	)
})

var _ = Describe("extras", func() {
	lines := []string{
		"Classificação: MTA-MOD.TARIFARIA AZUL / A4 SERVIÇO PÚBLICO",
		"Lim. Min.: 12000 Lim. Max.: 13800",
	}

	It("should keep the classification spelling", func() {
		Expect(FindClassification(lines)).To(Equal("MTA-MOD.TARIFARIA AZUL"))
	})

	It("should read the service type", func() {
		Expect(FindServiceType(lines)).To(Equal("A4"))
	})

	It("should read the voltage limits", func() {
		Expect(FindLimitMin(lines)).To(beValue("12000"))
		Expect(FindLimitMax(lines)).To(beValue("13800"))
	})

	It("should be empty when missing", func() {
		Expect(FindClassification([]string{"x"})).To(BeEmpty())
		Expect(FindServiceType([]string{"x"})).To(BeEmpty())
		Expect(FindLimitMin([]string{"x"}).Status).To(Equal(Absent))
	})
})
