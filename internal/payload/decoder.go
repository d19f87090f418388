package payload

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Strategy names a decoding attempt.
type Strategy string

const (
	// StrategyNone is reported when no attempt produced a record.
	StrategyNone Strategy = ""
	// StrategyLZString decompresses with the configured compressor.
	StrategyLZString Strategy = "lzstring"
	// StrategyBase64Unescaped percent-decodes before base64 decoding.
	StrategyBase64Unescaped Strategy = "base64-unescaped"
	// StrategyBase64Raw base64-decodes the fragment as given.
	StrategyBase64Raw Strategy = "base64-raw"
)

var (
	errEmptyText = errors.New("empty text")
	errNotObject = errors.New("payload is not a JSON object")
)

type attempt struct {
	strategy Strategy
	decode   func(fragment string) (Record, error)
}

// Decoder recovers records from fragments of any encoder generation.
type Decoder struct {
	compressor Compressor
	attempts   []attempt
}

// NewDecoder creates a decoder. A nil compressor skips the decompression attempt.
func NewDecoder(compressor Compressor) *Decoder {
	d := &Decoder{compressor: compressor}
	d.attempts = []attempt{
		{strategy: StrategyLZString, decode: d.decompress},
		{strategy: StrategyBase64Unescaped, decode: decodeUnescaped},
		{strategy: StrategyBase64Raw, decode: decodeRaw},
	}

	return d
}

// Decode returns the record carried by fragment, or nil when nothing could decode it.
func (d *Decoder) Decode(fragment string) Record {
	r, _ := d.Trace(fragment)

	return r
}

// Trace is Decode that also reports which strategy succeeded.
// Attempts run in order; an error or panic in one never prevents the next.
func (d *Decoder) Trace(fragment string) (Record, Strategy) {
	if fragment == "" {
		return nil, StrategyNone
	}

	for _, a := range d.attempts {
		if r, err := run(a, fragment); err == nil {
			return r, a.strategy
		}
	}

	return nil, StrategyNone
}

func run(a attempt, fragment string) (r Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("%s attempt panicked: %v", a.strategy, p)
		}
	}()

	return a.decode(fragment)
}

func (d *Decoder) decompress(fragment string) (Record, error) {
	if d.compressor == nil {
		return nil, ErrCompressorUnavailable
	}

	text, err := d.compressor.Decompress(fragment)
	if err != nil {
		return nil, err
	}

	if text == "" {
		return nil, errEmptyText
	}

	return parseRecord([]byte(text))
}

func decodeUnescaped(fragment string) (Record, error) {
	unescaped, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, err
	}

	return decodeRaw(unescaped)
}

func decodeRaw(fragment string) (Record, error) {
	raw, err := decodeBase64(fragment)
	if err != nil {
		return nil, err
	}

	return parseRecord(raw)
}

// decodeBase64 accepts what atob accepts: optional padding and embedded whitespace.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)

	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}

	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func parseRecord(text []byte) (Record, error) {
	if len(text) == 0 {
		return nil, errEmptyText
	}

	// btoa only handles Latin-1, so older fragments may carry ISO-8859-1 bytes.
	if !utf8.Valid(text) {
		converted, err := charmap.ISO8859_1.NewDecoder().Bytes(text)
		if err != nil {
			return nil, err
		}

		text = converted
	}

	var r Record
	if err := json.Unmarshal(text, &r); err != nil {
		return nil, err
	}

	if r == nil {
		return nil, errNotObject
	}

	return r, nil
}
