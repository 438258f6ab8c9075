package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	assert.Len(t, a, 24)
	assert.True(t, IsValidID(a))
	assert.NotEqual(t, a, b)
}

func TestIsValidID(t *testing.T) {
	cases := map[string]bool{
		"67720c1e65c42f81c591e778":  true,
		"64A8C3E8F6E4A520B8C4D6F8":  true,
		"":                          false,
		"123":                       false,
		"zz720c1e65c42f81c591e778":  false,
		"67720c1e65c42f81c591e7781": false,
		"twelve-chars":              false, // 12 raw bytes are not accepted
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidID(in), in)
	}
}
