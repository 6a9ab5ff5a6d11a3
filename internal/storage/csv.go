package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads a delimited text export.
type CSVReader struct {
	Path      string
	Encoding  string
	Delimiter rune
}

// Location implements service.TableSource.
func (r *CSVReader) Location() string { return r.Path }

// Load implements service.TableSource.
func (r *CSVReader) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := checkFile(r.Path); err != nil {
		return nil, err
	}

	dec, err := LookupEncoding(r.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSourceUnreadable, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close CSV file", "path", r.Path, "error", cerr)
		}
	}()

	rows, err := readCSV(f, dec, r.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrSourceUnreadable, r.Path, err)
	}
	return newTable(r.Path, rows)
}

func readCSV(src io.Reader, dec encoding.Encoding, delimiter rune) ([][]string, error) {
	in := src
	if dec != nil {
		in = transform.NewReader(src, dec.NewDecoder())
	}

	br := bufio.NewReader(in)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	return cr.ReadAll()
}

// LookupEncoding maps a configured encoding name to a decoder. UTF-8 and
// the empty name need no decoding and return nil.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	case "shift-jis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	case "euc-jp":
		return japanese.EUCJP, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", common.ErrInvalidConfig, name)
	}
}
