package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	h := HashString("0xabc")
	assert.True(t, IsHash(h))
	assert.Equal(t, h, HashString("0xabc"))
	assert.NotEqual(t, h, HashString("0xabd"))
	assert.Equal(t, HashBytes([]byte("0xabc")), h)

	// keccak256("") is a well known constant
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", HashString(""))
}

func TestIsHash(t *testing.T) {
	assert.False(t, IsHash("abc"))
	assert.False(t, IsHash("0x"+"zz"+HashString("a")[4:]))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, ClampLimit(0, 50, 200))
	assert.Equal(t, 10, ClampLimit(10, 50, 200))
	assert.Equal(t, 200, ClampLimit(1000, 50, 200))
}
