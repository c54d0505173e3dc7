// Package csvcodec reads and writes the two-column CSV files used to import
// and export redirects.
package csvcodec

import (
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"time"

	"redirector/internal/domain/models"
)

// MIMEType - the only accepted upload type.
const MIMEType = "text/csv"

// Header - first line of every exported file.
const Header = "Old URL,New URL"

var (
	// ErrFormat is wrapped by every error caused by the file itself.
	ErrFormat = errors.New("invalid CSV")
	// ErrEmptyInput - fewer than two non-blank lines.
	ErrEmptyInput = fmt.Errorf("%w: file is empty or has no data rows", ErrFormat)
	// ErrNoValidRecords - no data line produced a record.
	ErrNoValidRecords = fmt.Errorf("%w: no valid redirects found in file", ErrFormat)
	// ErrUnsupportedType - the upload is not text/csv.
	ErrUnsupportedType = fmt.Errorf("%w: please select a CSV file", ErrFormat)
)

// Two fields, each either a quoted string with doubled inner quotes or a run
// of non-comma characters. Anything after the second field is ignored.
var linePattern = regexp.MustCompile(`("(?:[^"]|"")*"|[^,]*),("(?:[^"]|"")*"|[^,]*)`)

// CheckContentType rejects anything but text/csv. Parameters such as charset
// are ignored.
func CheckContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != MIMEType {
		return ErrUnsupportedType
	}
	return nil
}

// Decode parses an uploaded file. The first non-blank line is the header and
// is skipped; lines that do not hold two fields are ignored.
func Decode(text string) ([]models.RedirectRecord, error) {
	var lines []string
	for _, l := range splitLines(text) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	var records []models.RedirectRecord
	for _, l := range lines[1:] {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(l))
		if m == nil {
			continue
		}

		path := unquote(m[1])
		if path == "" {
			continue
		}
		records = append(records, models.RedirectRecord{Path: path, RedirectTo: unquote(m[2])})
	}

	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}
	return records, nil
}

// Encode renders records as CSV and names the download after tag and the
// UTC date of now.
func Encode(records []models.RedirectRecord, tag string, now time.Time) (text, filename string) {
	var b strings.Builder
	b.WriteString(Header)
	for _, r := range records {
		b.WriteByte('\n')
		b.WriteString(field(r.Path))
		b.WriteByte(',')
		b.WriteString(field(r.RedirectTo))
	}
	return b.String(), Filename(tag, now)
}

// Filename returns redirects-{tag}-{YYYY-MM-DD}.csv.
func Filename(tag string, now time.Time) string {
	return fmt.Sprintf("redirects-%s-%s.csv", tag, now.UTC().Format(time.DateOnly))
}

func field(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// splitLines breaks text on newlines that are outside of quoted fields and
// drops a trailing carriage return from every line. A quote opens a quoted
// field only at the start of a field. When a quoted field is never closed the
// text is split on every newline instead.
func splitLines(text string) []string {
	var (
		lines      []string
		b          strings.Builder
		inQuotes   bool
		fieldStart = true
	)

	flush := func() {
		lines = append(lines, strings.TrimSuffix(b.String(), "\r"))
		b.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inQuotes && c == '"':
			if i+1 < len(text) && text[i+1] == '"' {
				b.WriteString(`""`)
				i++
				continue
			}
			inQuotes = false
			b.WriteByte(c)
		case inQuotes:
			b.WriteByte(c)
		case c == '\n':
			flush()
			fieldStart = true
		case c == ',':
			b.WriteByte(c)
			fieldStart = true
		case c == '"' && fieldStart:
			inQuotes = true
			fieldStart = false
			b.WriteByte(c)
		case c == ' ' || c == '\t':
			b.WriteByte(c)
		default:
			fieldStart = false
			b.WriteByte(c)
		}
	}
	if inQuotes {
		return plainLines(text)
	}
	flush()

	return lines
}

func plainLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
