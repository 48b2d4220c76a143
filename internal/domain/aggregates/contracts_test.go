package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractsAreAggregateOwned(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Contracts() {
		assert.NotEmpty(t, c.Name)
		assert.False(t, seen[c.Name], "duplicate contract %s", c.Name)
		seen[c.Name] = true
		assert.True(t, c.RequiresAggregateOwnedTx(), c.Name)
		assert.Equal(t, ReadPolicyInvariantScoped, c.ReadPolicy, c.Name)
	}
	assert.Len(t, seen, 7)
}
