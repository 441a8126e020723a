package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	content := []byte(`[{"type":"paragraph","content":"` + strings.Repeat("notion ", 200) + `"}]`)

	for _, name := range []string{NopName, GZipName, BrotliName, LZ4Name} {
		t.Run("codec "+name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, codec.Name())

			encoded, err := codec.Encode(content)
			require.NoError(t, err)
			if name != NopName {
				assert.Less(t, len(encoded), len(content))
			}

			decoded, err := codec.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, content, decoded)
		})
	}

	_, err := Lookup("zstd")
	assert.Error(t, err)
}
