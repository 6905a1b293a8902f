// Package csv reads seed files and writes backup files.
//
// Reading strips a UTF-8 BOM, replaces invalid UTF-8 with U+FFFD, cleans
// header cells and checks that required columns are present before rows are
// mapped onto structs with gocsv. Writing goes through a temp file in the
// target directory that is renamed over the target only after a successful
// fsync, so a failed write never replaces an existing file.
package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("empty file: no header row")

// Decode reads a CSV document from r into out, which must be a pointer to a
// slice of structs tagged with `csv:"column"`. Header names are matched after
// CleanHeader; every name in required must be present.
func Decode(r io.Reader, required []string, out any) error {
	reader := newHeaderReader(NewReader(r), required)
	if err := gocsv.UnmarshalCSV(reader, out); err != nil {
		if errors.Is(err, ErrEmptyFile) || errors.Is(err, errMissingColumn) {
			return err
		}
		return fmt.Errorf("invalid csv: %w", err)
	}
	return nil
}

// ReadFile opens path and decodes it with Decode.
func ReadFile(path string, required []string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Decode(f, required, out)
}

// NewReader wraps r so the CSV parser sees BOM-free, valid UTF-8.
func NewReader(r io.Reader) *stdcsv.Reader {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := stdcsv.NewReader(decoded)
	cr.TrimLeadingSpace = true
	return cr
}

// Encode writes in (a slice of tagged structs) as CSV with a header row.
func Encode(w io.Writer, in any) error {
	return gocsv.Marshal(in, w)
}

// WriteFileAtomic encodes in and replaces path with the result.
// On failure the previous contents of path are left untouched.
func WriteFileAtomic(path string, in any) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = Encode(tmp, in); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// CleanHeader normalises a header cell for matching (lowercase, trimmed,
// no Excel formula prefix or surrounding quotes).
func CleanHeader(s string) string {
	return strings.ToLower(CleanCell(s))
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
