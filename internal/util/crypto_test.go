package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAuthCode(t *testing.T) {
	t.Run("generates prefixed 32 character hex payload", func(t *testing.T) {
		code, err := GenerateAuthCode()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, "tupleap_"))
		assert.Len(t, code, len("tupleap_")+32)
	})

	t.Run("generates unique codes", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			code, err := GenerateAuthCode()
			require.NoError(t, err)
			assert.False(t, seen[code], "duplicate code generated")
			seen[code] = true
		}
	})

	t.Run("payload is valid hex", func(t *testing.T) {
		code, err := GenerateAuthCode()
		require.NoError(t, err)
		for _, c := range strings.TrimPrefix(code, "tupleap_") {
			assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'))
		}
	})
}

func TestConstantTimeEqual(t *testing.T) {
	t.Run("returns true for equal strings", func(t *testing.T) {
		assert.True(t, ConstantTimeEqual("abc", "abc"))
	})

	t.Run("returns false for different strings", func(t *testing.T) {
		assert.False(t, ConstantTimeEqual("abc", "def"))
	})

	t.Run("returns false for different lengths", func(t *testing.T) {
		assert.False(t, ConstantTimeEqual("abc", "abcd"))
	})

	t.Run("returns true for empty strings", func(t *testing.T) {
		assert.True(t, ConstantTimeEqual("", ""))
	})
}

func TestMaskCode(t *testing.T) {
	t.Run("keeps prefix and masks the rest", func(t *testing.T) {
		masked := MaskCode("tupleap_0123456789abcdef0123456789abcdef")
		assert.Equal(t, "tupleap_0123****", masked)
	})

	t.Run("fully masks short codes", func(t *testing.T) {
		assert.Equal(t, "****", MaskCode("short"))
	})

	t.Run("never contains the random payload", func(t *testing.T) {
		code, err := GenerateAuthCode()
		require.NoError(t, err)
		masked := MaskCode(code)
		assert.NotContains(t, masked, code[len("tupleap_")+4:])
	})
}
