package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "classic-polo-shirt", GenerateSlug("Classic Polo Shirt"))
	assert.Equal(t, "ecole-privee", GenerateSlug("École Privée"))
	assert.Equal(t, "gsm-220-pique", GenerateSlug("  GSM 220 / Piqué!  "))
}

func TestMergeImageUrlsArrays(t *testing.T) {
	old := []string{"a", "b", "c"}
	got := MergeImageUrlsArrays(old, []string{"b"}, []string{"d", "a"})
	assert.Equal(t, []string{"a", "c", "d"}, got)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 42, ParseIntDefault("42", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
}
