package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinParts(t *testing.T) {
	assert.Equal(t, "123 Main St", JoinParts("123", "Main", "St", ""))
	assert.Equal(t, "123 Main St 4", JoinParts(" 123 ", "Main", "  ", "St", "4"))
	assert.Equal(t, "", JoinParts("", " "))
}

func TestPropertyKey(t *testing.T) {
	a := PropertyKey("123 Main Street Apt 4", "Portland", "Oregon", "97201-1234")
	b := PropertyKey("123 MAIN ST.", " portland ", "or", "97201")
	assert.Equal(t, "123 main st|portland|or|97201", a)
	assert.Equal(t, a, b)

	assert.Equal(t, "", PropertyKey("", "Portland", "OR", "97201"))
	// the first token is never treated as a suffix
	assert.Equal(t, "street rd|||", PropertyKey("Street Road", "", "", ""))
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "WA", StateCode("washington"))
	assert.Equal(t, "NH", StateCode("New  Hampshire"))
	assert.Equal(t, "OR", StateCode(" or "))
	assert.Equal(t, "BC", StateCode("BC"))
}
