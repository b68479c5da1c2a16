package fields

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/energy-invoices/constants"
	"github.com/joseph-ayodele/energy-invoices/internal/common"
)

type fixedStrategy struct {
	name   string
	result Amount
	calls  *int
}

func (s fixedStrategy) Name() string { return s.name }

func (s fixedStrategy) Find(Source, LabelPattern) Amount {
	if s.calls != nil {
		*s.calls++
	}
	return s.result
}

var _ = Describe("Resolve", func() {
	var (
		first, second fixedStrategy
		secondCalls   int
	)

	BeforeEach(func() {
		secondCalls = 0
		first = fixedStrategy{name: "first"}
		second = fixedStrategy{name: "second", calls: &secondCalls}
	})

	resolve := func() Amount {
		return Resolve(Source{}, label(constants.FieldEnergyMUC), []Strategy{first, second})
	}

	It("should stop at the first present result", func() {
		first.result = present(decimal.NewFromInt(1), "1,00", "first")
		second.result = present(decimal.NewFromInt(2), "2,00", "second")
		Expect(resolve().Source).To(Equal("first"))
		Expect(secondCalls).To(Equal(0))
	})

	It("should fall through absent results", func() {
		second.result = present(decimal.NewFromInt(2), "2,00", "second")
		Expect(resolve()).To(beValue("2"))
	})

	It("should stop at a malformed result", func() {
		first.result = malformed("r$ 1,0", "first")
		second.result = present(decimal.NewFromInt(2), "2,00", "second")
		Expect(resolve()).To(Equal(malformed("r$ 1,0", "first")))
		Expect(secondCalls).To(Equal(0))
	})

	It("should keep a later malformed result", func() {
		second.result = malformed("r$ 2,0", "second")
		Expect(resolve().Status).To(Equal(Malformed))
	})

	It("should be absent when every strategy is", func() {
		Expect(resolve()).To(Equal(Amount{}))
	})
})

var _ = Describe("Options", func() {
	var (
		dir  string
		path string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "rules.yaml")
	})

	write := func(content string) {
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	It("should keep defaults for missing keys", func() {
		write("window: 3\nlayout:\n  y_tolerance: 5\n")
		opts, err := LoadOptions(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Window).To(Equal(3))
		Expect(opts.Layout.YTolerance).To(Equal(5.0))
		Expect(opts.Layout.XTolerance).To(Equal(DefaultLayoutOptions().XTolerance))
		Expect(opts.Layout.ColumnHint).To(Equal(DefaultLayoutOptions().ColumnHint))
	})

	It("should override label patterns by field name", func() {
		write("labels:\n  muc: 'credito\\s+muc'\n")
		opts, err := LoadOptions(path)
		Expect(err).NotTo(HaveOccurred())
		labels, err := opts.LabelSet()
		Expect(err).NotTo(HaveOccurred())
		l, ok := labels.Get(constants.FieldEnergyMUC)
		Expect(ok).To(BeTrue())
		Expect(l.Pattern.String()).To(Equal(`credito\s+muc`))
		Expect(labels.Labels()).To(HaveLen(3))
	})

	It("should reject unknown label fields", func() {
		write("labels:\n  foo: 'bar'\n")
		opts, err := LoadOptions(path)
		Expect(err).NotTo(HaveOccurred())
		_, err = opts.LabelSet()
		Expect(err).To(MatchError(ContainSubstring("foo")))
	})

	DescribeTable("invalid label overrides",
		func(content, wantField string) {
			write(content)
			_, err := LoadOptions(path)
			Expect(err).To(MatchError(common.ErrValidation))
			Expect(err).To(MatchError(ContainSubstring(wantField)))
		},
		Entry("pattern does not compile", "labels:\n  muc: 'energia ('\n", "labels.muc"),
		Entry("blank pattern", "labels:\n  ouc: '  '\n", "labels.ouc"),
	)

	It("should reject a negative window", func() {
		write("window: -1\n")
		_, err := LoadOptions(path)
		Expect(err).To(MatchError(ContainSubstring("window")))
	})

	It("should fail on a missing file", func() {
		_, err := LoadOptions(filepath.Join(dir, "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})

	It("should build line then layout strategies", func() {
		strategies, err := DefaultOptions().Strategies(DefaultLabels())
		Expect(err).NotTo(HaveOccurred())
		Expect(strategies).To(HaveLen(2))
		Expect(strategies[0].Name()).To(Equal(SourceLine))
		Expect(strategies[1].Name()).To(Equal(SourceLayout))
	})
})
