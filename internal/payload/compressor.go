package payload

import (
	"errors"

	lzstring "github.com/daku10/go-lz-string"
)

var ErrCompressorUnavailable = errors.New("compressor unavailable")

// Compressor is an optional compressing transform whose output is safe to embed in a URL fragment.
type Compressor interface {
	Compress(text string) (string, error)
	Decompress(safe string) (string, error)
}

// LZString compresses with the LZ-String "encoded URI component" alphabet,
// the same one used by the browser client.
type LZString struct{}

func (LZString) Compress(text string) (string, error) {
	return lzstring.CompressToEncodedURIComponent(text)
}

func (LZString) Decompress(safe string) (string, error) {
	return lzstring.DecompressFromEncodedURIComponent(safe)
}

// Unavailable stands in for a compressor that failed to load.
type Unavailable struct{}

func (Unavailable) Compress(string) (string, error) {
	return "", ErrCompressorUnavailable
}

func (Unavailable) Decompress(string) (string, error) {
	return "", ErrCompressorUnavailable
}

// Compile-time checks.
var (
	_ Compressor = LZString{}
	_ Compressor = Unavailable{}
)
