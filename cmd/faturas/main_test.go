package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joseph-ayodele/energy-invoices/internal/pdftext/pdftest"
)

func TestFaturas(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterFailHandler(Fail)
	RunSpecs(t, "Faturas Suite")
}

var _ = Describe("run", func() {
	var (
		dir            string
		input          string
		stdout, stderr *bytes.Buffer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		input = filepath.Join(dir, "faturas")
		Expect(os.MkdirAll(input, 0o755)).To(Succeed())
		stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	})

	exec := func(args ...string) int {
		return run(context.Background(), args, stdout, stderr)
	}

	withCredit := func(name string) {
		Expect(pdftest.Write(filepath.Join(input, name), pdftest.Lines(
			"Unidade Consumidora: 3012345678",
			"Referente a Outubro / 2024",
			"Energia Atv Injetada mUC R$ 117,00",
		))).To(Succeed())
	}

	It("should write the spreadsheet to the given output", func() {
		withCredit("a.pdf")
		out := filepath.Join(dir, "out.xlsx")
		Expect(exec(input, out)).To(Equal(exitOK))
		Expect(out).To(BeAnExistingFile())
		Expect(stdout.String()).To(ContainSubstring("Gravados:    1"))
	})

	It("should add the extension to the output name", func() {
		withCredit("a.pdf")
		Expect(exec("--input", input, "--output", filepath.Join(dir, "out"))).To(Equal(exitOK))
		Expect(filepath.Join(dir, "out.xlsx")).To(BeAnExistingFile())
	})

	It("should use a timestamped name in the output directory", func() {
		withCredit("a.pdf")
		outDir := filepath.Join(dir, "saidas")
		Expect(exec("--output-dir", outDir, "--extended", input)).To(Equal(exitOK))
		matches, err := filepath.Glob(filepath.Join(outDir, "faturas_processadas_*.xlsx"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))
	})

	It("should succeed without writing when nothing has credits", func() {
		Expect(pdftest.Write(filepath.Join(input, "a.pdf"), pdftest.Lines("Energia Elétrica 285,00"))).To(Succeed())
		out := filepath.Join(dir, "out.xlsx")
		Expect(exec(input, out)).To(Equal(exitOK))
		Expect(out).NotTo(BeAnExistingFile())
		Expect(stdout.String()).To(ContainSubstring("Nenhuma planilha gerada."))
	})

	It("should cache results between runs", func() {
		withCredit("a.pdf")
		cachePath := filepath.Join(dir, "cache.db")
		Expect(exec("--cache", cachePath, input, filepath.Join(dir, "1.xlsx"))).To(Equal(exitOK))
		Expect(exec("--cache", cachePath, input, filepath.Join(dir, "2.xlsx"))).To(Equal(exitOK))
		Expect(cachePath).To(BeAnExistingFile())
		Expect(filepath.Join(dir, "2.xlsx")).To(BeAnExistingFile())
	})

	It("should fail at runtime on a missing input", func() {
		Expect(exec(filepath.Join(dir, "nope"), filepath.Join(dir, "out.xlsx"))).To(Equal(exitError))
	})

	DescribeTable("usage errors",
		func(args ...string) {
			Expect(exec(args...)).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("error"))
		},
		Entry("unknown flag", "--nope"),
		Entry("no workers", "--workers", "0"),
		Entry("negative window", "--window", "-1"),
		Entry("bad log format", "--log-format", "xml"),
		Entry("too many arguments", "a", "b", "c"),
	)

	It("should reject an unreadable rules file", func() {
		Expect(exec("--rules", filepath.Join(dir, "missing.yaml"), input)).To(Equal(exitUsage))
	})

	It("should print help", func() {
		Expect(exec("--help")).To(Equal(exitOK))
		Expect(stderr.String()).To(ContainSubstring("--output-dir"))
	})
})
