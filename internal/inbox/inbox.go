// Package inbox finds statements waiting in a project's import directory and
// moves them aside once they have been categorized.
package inbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directories relative to the project root.
const (
	ImportDir    = "import"
	ProcessedDir = "import/processed"
	ExportDir    = "exports"
)

// Extensions accepted as statements.
var Extensions = []string{".xlsx", ".csv"}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Accepts reports whether name has a statement extension.
func Accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns statement files in <root>/import/, sorted by name. A missing
// import directory yields no files.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, ImportDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !Accepts(e.Name()) || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ExportPath returns where the categorized copy of name is written:
// <root>/exports/<name>_categorized.xlsx. The source extension stays in the
// name so jan.csv and jan.xlsx never share an export.
func ExportPath(root, name string) string {
	return filepath.Join(root, ExportDir, name+"_categorized.xlsx")
}

// maxDuplicates bounds the suffixes MarkProcessed tries for one name.
const maxDuplicates = 1000

// MarkProcessed moves a file from import/ to import/processed/ and returns the
// name it was stored under. An earlier statement with the same name is never
// replaced: the new one is stored as <stem>-2<ext>, <stem>-3<ext> and so on.
func MarkProcessed(root, fileName string) (string, error) {
	src := filepath.Join(root, ImportDir, fileName)
	dstDir := filepath.Join(root, ProcessedDir)

	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	for n := 1; n <= maxDuplicates; n++ {
		name := fileName
		if n > 1 {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		dst := filepath.Join(dstDir, name)

		// Claim the name first so concurrent moves cannot pick the same one.
		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
		}
		f.Close()

		if err := os.Rename(src, dst); err != nil {
			os.Remove(dst)
			return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("moving %s to processed: too many files with that name", fileName)
}
