package compress

import "fmt"

// Compress encodes and decodes opaque document content.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	Name() string
}

const (
	NopName    = ""
	GZipName   = "gzip"
	BrotliName = "brotli"
	LZ4Name    = "lz4"
)

// Lookup returns the codec registered under name. The empty name is the nop codec.
func Lookup(name string) (Compress, error) {
	switch name {
	case NopName, "nop", "none":
		return NewNop(), nil
	case GZipName:
		return NewGZip(), nil
	case BrotliName:
		return NewBrotli(), nil
	case LZ4Name:
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression: %q", name)
	}
}
