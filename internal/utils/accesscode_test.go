package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessCodeFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateAccessCode()
		require.NoError(t, err)
		assert.True(t, IsAccessCode(code), "generated code %q has wrong shape", code)
		seen[code] = true
	}
	// 50 draws from a 36^8 space should not collide
	assert.Greater(t, len(seen), 1)
}

func TestIsAccessCode(t *testing.T) {
	assert.True(t, IsAccessCode("CUST-AB12-ZZ99"))
	assert.False(t, IsAccessCode("cust-ab12-zz99"))
	assert.False(t, IsAccessCode("CUST-AB12ZZ99"))
	assert.False(t, IsAccessCode("CUST-AB1-ZZ99"))
	assert.False(t, IsAccessCode(""))
	assert.False(t, IsAccessCode("CUST-ab12-ZZ99"))
}
