package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTicketNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ticket, err := GenerateTicketNumber()
		require.NoError(t, err)
		assert.Len(t, ticket, 7)
		assert.Equal(t, strings.ToUpper(ticket), ticket)
		for _, r := range ticket {
			assert.Contains(t, base36Alphabet, string(r))
		}
		seen[ticket] = true
	}
	// 100 draws from a 36^7 keyspace should never collide
	assert.Len(t, seen, 100)
}
