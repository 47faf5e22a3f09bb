package gb

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/morozRed/gbgraph/pkg/errs"
)

// record is one logical line: physical lines joined across trailing
// continuation markers. line is the 1-based number of the first physical
// line.
type record struct {
	line int
	text string
}

// field is one comma-separated value with quotes and continuation markers
// removed. quoted reports whether the value was written as a string.
type field struct {
	text   string
	quoted bool
}

// isNull reports a bare 0.
func (f field) isNull() bool {
	return !f.quoted && f.text == "0"
}

// readRecords reads the whole input into logical records. Blank records are
// dropped.
func readRecords(r io.Reader, file string) ([]record, error) {
	br := bufio.NewReader(r)
	var (
		records []record
		buf     strings.Builder
		start   int
		lineno  int
		pending bool
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.Wrap(errs.TypeIO, err, "failed to read %s", file)
		}
		if line == "" && errors.Is(err, io.EOF) {
			break
		}
		lineno++
		line = strings.TrimRight(line, "\r\n")
		if !pending {
			start = lineno
		}
		if strings.HasSuffix(line, string(continuation)) {
			buf.WriteString(line[:len(line)-1])
			pending = true
		} else {
			buf.WriteString(line)
			pending = false
			if text := buf.String(); strings.TrimSpace(text) != "" {
				records = append(records, record{line: start, text: text})
			}
			buf.Reset()
		}
		if err != nil {
			break
		}
	}
	if pending {
		if text := buf.String(); strings.TrimSpace(text) != "" {
			records = append(records, record{line: start, text: text})
		}
	}
	return records, nil
}

// splitFields splits text on commas outside double quotes. A trailing
// separator does not start an empty field.
func splitFields(rec record, file string) ([]field, error) {
	if rec.text == "" {
		return nil, nil
	}
	var (
		fields  []field
		cur     strings.Builder
		quoted  bool
		inQuote bool
		fresh   = true
	)
	for i := 0; i < len(rec.text); i++ {
		c := rec.text[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			if fresh {
				quoted = true
			}
		case c == continuation:
		case c == fieldSep && !inQuote:
			fields = append(fields, field{text: cur.String(), quoted: quoted})
			cur.Reset()
			quoted = false
			fresh = true
			continue
		default:
			cur.WriteByte(c)
		}
		fresh = false
	}
	if inQuote {
		return nil, errs.At(errs.TypeMalformedField, file, rec.line, rec.text,
			"unterminated string")
	}
	if !fresh || len(fields) == 0 {
		fields = append(fields, field{text: cur.String(), quoted: quoted})
	}
	return fields, nil
}
