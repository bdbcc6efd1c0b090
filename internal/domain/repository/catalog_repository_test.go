package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, ListQuery{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, 0, ListQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, ListQuery{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, ListQuery{Page: 5, Limit: 0}.Offset())
}

func TestListQuery_OffsetSaturatesOnHugePages(t *testing.T) {
	for _, q := range []ListQuery{
		{Page: math.MaxInt/100 + 2, Limit: 100},
		{Page: math.MaxInt/50 + 2, Limit: 50},
		{Page: math.MaxInt, Limit: 100},
	} {
		off := q.Offset()
		assert.GreaterOrEqual(t, off, 0, "page %d", q.Page)
		assert.Equal(t, math.MaxInt, off, "page %d", q.Page)
	}
	assert.Equal(t, (math.MaxInt/100)*100, ListQuery{Page: math.MaxInt/100 + 1, Limit: 100}.Offset())
}
