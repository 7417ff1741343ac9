package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHMAC(t *testing.T) {
	t.Parallel()
	expectedSha1 := []byte{
		74, 253, 245, 154, 87, 168, 110, 182, 172, 101, 177, 49, 142, 2, 253, 165,
		100, 66, 86, 246,
	}

	sha1, err := GetHMAC(HashSHA1, []byte("Hello,World"), []byte("1234"))
	require.NoError(t, err, "GetHMAC must not error")
	assert.Equal(t, expectedSha1, sha1, "GetHMAC should return the correct SHA1 digest")

	_, err = GetHMAC(HashSHA1, []byte("Hello,World"), nil)
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = GetHMAC(HashSHA1+1, []byte("Hello,World"), []byte("1234"))
	assert.ErrorIs(t, err, ErrUnsupportedHashType)
}

func TestHexEncodeToString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "737472696e67", HexEncodeToString([]byte("string")))
}
