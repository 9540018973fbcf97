package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverAppendsSuffixToReservedNames(t *testing.T) {
	r := NewResolver(func(s string) bool { return s == "operands" || s == "from" })

	assert.Equal(t, "operands_", r.Resolve("operands"))
	assert.Equal(t, "from_", r.Resolve("from"))
	assert.Equal(t, "lhs", r.Resolve("lhs"))
}

func TestResolverNilPredicateReservesNothing(t *testing.T) {
	var r Resolver
	assert.Equal(t, "class", r.Resolve("class"))
}
