package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoded, err := Encode("café", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, []byte(encoded))

	decoded, err := Decode([]byte(encoded), "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", decoded)
}

func TestEncodeUTF8IsIdentity(t *testing.T) {
	out, err := Encode("你好", "utf8")
	require.NoError(t, err)
	assert.Equal(t, "你好", out)

	out, err = Decode([]byte("你好"), "")
	require.NoError(t, err)
	assert.Equal(t, "你好", out)
}

func TestGBK(t *testing.T) {
	encoded, err := Encode("你好", "GBK")
	require.NoError(t, err)
	assert.NotEqual(t, "你好", encoded)

	decoded, err := Decode([]byte(encoded), "gbk")
	require.NoError(t, err)
	assert.Equal(t, "你好", decoded)
}

func TestUnsupported(t *testing.T) {
	assert.False(t, Supported("klingon"))
	assert.True(t, Supported("UTF-8"))
	_, err := Encode("x", "klingon")
	assert.Error(t, err)
}

func TestFromContentType(t *testing.T) {
	assert.Equal(t, "ISO-8859-1", FromContentType("text/html; charset=ISO-8859-1"))
	assert.Equal(t, "", FromContentType("application/json"))
	assert.Equal(t, "", FromContentType(""))
}
