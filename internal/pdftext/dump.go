package pdftext

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dump writes the extracted lines of doc to dir/<name>-<hash>.txt.
func dump(dir string, doc Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var b strings.Builder
	for _, p := range doc.Pages {
		fmt.Fprintf(&b, "--- page %d (%s) ---\n", p.Index, doc.Method)
		for _, l := range p.Lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return os.WriteFile(filepath.Join(dir, dumpName(doc.Path)), []byte(b.String()), 0o644)
}

// dumpName keeps the base name readable and adds a short hash of the full
// path so files with the same name in different folders do not collide.
func dumpName(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s-%x.txt", base, sum[:4])
}
