package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuoteStatus(t *testing.T) {
	for _, s := range []string{"new", "reviewing", "quoted", "closed"} {
		st, err := ParseQuoteStatus(s)
		require.NoError(t, err)
		assert.Equal(t, QuoteStatus(s), st)
	}

	for _, s := range []string{"", "New", "archived", "NEW "} {
		_, err := ParseQuoteStatus(s)
		assert.ErrorIs(t, err, ErrInvalidQuoteStatus, "status %q should be rejected", s)
	}
}
