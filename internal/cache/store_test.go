package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/energy-invoices/internal/common"
	"github.com/joseph-ayodele/energy-invoices/internal/fields"
	"github.com/joseph-ayodele/energy-invoices/internal/invoice"
)

func TestCache(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

type countingProcessor struct {
	calls  int
	record invoice.Record
	err    error
}

func (p *countingProcessor) Process(_ context.Context, path string) (invoice.Record, error) {
	p.calls++
	if p.err != nil {
		return invoice.Record{}, p.err
	}
	rec := p.record
	rec.SourcePath = path
	return rec, nil
}

var _ = Describe("Store", func() {
	var (
		dir   string
		store *Store
		next  *countingProcessor
		proc  invoice.FileProcessor
		ctx   context.Context
	)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		var err error
		store, err = Open(filepath.Join(dir, "cache.db"), "v1")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		next = &countingProcessor{record: invoice.Record{
			Date:      "OUT/24",
			EnergyMUC: fields.Amount{Status: fields.Present, Value: decimal.RequireFromString("117.5"), Raw: "117,50", Source: fields.SourceLine},
		}}
		proc = Wrap(store, next, nil)
	})

	It("should serve the second call from the cache", func() {
		path := write("a.pdf", "conteudo")
		first, err := proc.Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		second, err := proc.Process(ctx, path)
		Expect(err).NotTo(HaveOccurred())

		Expect(next.calls).To(Equal(1))
		Expect(second.Date).To(Equal(first.Date))
		Expect(second.EnergyMUC.Value.Equal(first.EnergyMUC.Value)).To(BeTrue())
		Expect(second.EnergyMUC.Status).To(Equal(fields.Present))
		Expect(store.Len()).To(Equal(1))
	})

	It("should key on content, not on path", func() {
		a := write("a.pdf", "mesmo")
		b := write("b.pdf", "mesmo")
		_, err := proc.Process(ctx, a)
		Expect(err).NotTo(HaveOccurred())
		rec, err := proc.Process(ctx, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.calls).To(Equal(1))
		Expect(rec.SourcePath).To(Equal(b))
	})

	It("should not cache failures", func() {
		next.err = common.UnreadablePDF("x", errors.New("boom"))
		path := write("x.pdf", "lixo")
		_, err := proc.Process(ctx, path)
		Expect(common.IsUnreadablePDF(err)).To(BeTrue())
		_, err = proc.Process(ctx, path)
		Expect(err).To(HaveOccurred())
		Expect(next.calls).To(Equal(2))
		Expect(store.Len()).To(BeZero())
	})

	It("should pass missing files through", func() {
		_, err := proc.Process(ctx, filepath.Join(dir, "missing.pdf"))
		Expect(err).NotTo(HaveOccurred())
		Expect(next.calls).To(Equal(1))
	})

	It("should separate fingerprints", func() {
		sum, err := FileSum(write("a.pdf", "x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Put(sum, invoice.Record{Date: "JAN/24"})).To(Succeed())
		Expect(store.Close()).To(Succeed())

		other, err := Open(filepath.Join(dir, "cache.db"), "v2")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(other.Close)
		_, ok, err := other.Get(sum)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Fingerprint", func() {
	It("should change with the settings", func() {
		a, err := Fingerprint(fields.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		opts := fields.DefaultOptions()
		opts.Window = 5
		b, err := Fingerprint(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))

		again, err := Fingerprint(fields.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(a))
	})
})
