package payload

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEncode = errors.New("payload cannot be encoded")

// Encoder turns records into fragment strings.
// A nil compressor means compression is absent and every record takes the fallback path.
type Encoder struct {
	compressor Compressor
}

// NewEncoder creates an encoder that prefers the given compressor.
func NewEncoder(compressor Compressor) *Encoder {
	return &Encoder{compressor: compressor}
}

// Encode serializes the record and returns a fragment-safe string.
// Compression failures fall back to percent-encoded base64; only a record that
// cannot be serialized returns an error.
func (e *Encoder) Encode(r Record) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: nil record", ErrEncode)
	}

	text, err := marshalRecord(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if fragment, err := e.compress(string(text)); err == nil && fragment != "" {
		return fragment, nil
	}

	return escapeComponent(base64.StdEncoding.EncodeToString(text)), nil
}

func (e *Encoder) compress(text string) (fragment string, err error) {
	if e.compressor == nil {
		return "", ErrCompressorUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			fragment, err = "", fmt.Errorf("compressor panicked: %v", r)
		}
	}()

	return e.compressor.Compress(text)
}

// marshalRecord produces compact JSON without HTML escaping, matching JSON.stringify.
func marshalRecord(r Record) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
