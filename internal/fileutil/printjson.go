package fileutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
)

// EncodeJSON writes value as indented JSON. Graph ids and vertex names are
// left unescaped, so "<" and "&" print as themselves.
func EncodeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}

// MarshalJSON is EncodeJSON into a byte slice.
func MarshalJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func PrintJSON(value any) error {
	return EncodeJSON(os.Stdout, value)
}
