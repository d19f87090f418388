package payload

// Codec pairs an encoder and decoder sharing one compressor.
type Codec struct {
	*Encoder
	*Decoder
}

// NewCodec creates a codec. Pass nil to run without compression.
func NewCodec(compressor Compressor) *Codec {
	return &Codec{
		Encoder: NewEncoder(compressor),
		Decoder: NewDecoder(compressor),
	}
}

var defaultCodec = NewCodec(LZString{})

// Encode encodes r with LZ-String compression and the base64 fallback.
func Encode(r Record) (string, error) {
	return defaultCodec.Encode(r)
}

// Decode decodes a fragment produced by any encoder generation. It returns nil on failure.
func Decode(fragment string) Record {
	return defaultCodec.Decode(fragment)
}
