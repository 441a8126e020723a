package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/emrgen/notion"
)

func TestContext_WriteAndRead(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.Equal(t, Context{}, readContext())

	require.NoError(t, writeContext(Context{Token: "abc", Address: "localhost:5000"}))
	assert.Equal(t, Context{Token: "abc", Address: "localhost:5000"}, readContext())

	md, ok := metadata.FromOutgoingContext(tokenContext())
	require.True(t, ok)
	assert.Equal(t, []string{"Bearer abc"}, md.Get("authorization"))

	require.NoError(t, writeContext(Context{}))
	assert.Equal(t, Context{}, readContext())
	_, ok = metadata.FromOutgoingContext(tokenContext())
	assert.False(t, ok)
	assert.Equal(t, notion.DefaultAddress, addressOrDefault(readContext().Address))
}

func TestContext_TokenFlagWins(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, writeContext(Context{Token: "saved"}))

	Token = "flag"
	t.Cleanup(func() { Token = "" })

	md, ok := metadata.FromOutgoingContext(tokenContext())
	require.True(t, ok)
	assert.Equal(t, []string{"Bearer flag"}, md.Get("authorization"))
}
