package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		limit, page int
		want        Params
	}{
		{0, 0, Params{Limit: DefaultLimit, Page: 1}},
		{-5, -1, Params{Limit: DefaultLimit, Page: 1}},
		{500, 3, Params{Limit: MaxLimit, Page: 3}},
		{10, 2, Params{Limit: 10, Page: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.limit, tt.page))
	}
}

func TestOffsetAndHasMore(t *testing.T) {
	p := Normalize(10, 3)
	assert.Equal(t, 20, p.Offset())
	assert.True(t, p.HasMore(31))
	assert.False(t, p.HasMore(30))
	assert.Equal(t, 0, Normalize(10, 1).Offset())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Truncate([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, Truncate([]int{1}, 2))
	assert.Nil(t, Truncate[int](nil, 2))
}
