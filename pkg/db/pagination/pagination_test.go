package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for size := 1; size <= 10; size++ {
			p := Paginate(page, size)
			assert.Equal(t, (page-1)*size, p.Offset)
			assert.Equal(t, size, p.Limit)
			assert.Equal(t, page, p.Number)
		}
	}
}

func TestPaginateClamps(t *testing.T) {
	p := Paginate(0, 0)
	assert.Equal(t, Page{Number: 1, Offset: 0, Limit: DefaultPageSize}, p)

	p = Paginate(-3, 6)
	assert.Equal(t, 0, p.Offset)
}

func TestPaginateHugePage(t *testing.T) {
	for _, size := range []int{1, 6, 7, 1000} {
		p := Paginate(math.MaxInt/3, size)
		if p.Offset < 0 {
			t.Fatalf("Paginate(MaxInt/3, %d) offset = %d", size, p.Offset)
		}
		assert.GreaterOrEqual(t, p.Offset+p.Limit, p.Offset, "size=%d", size)
		assert.Equal(t, size, p.Limit)
	}

	p := Paginate(math.MaxInt, 6)
	assert.Equal(t, math.MaxInt/6, p.Number)
	assert.Equal(t, (math.MaxInt/6-1)*6, p.Offset)
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count int64
		size  int
		want  int
	}{
		{0, 6, 0},
		{0, 1, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
		{100, 10, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.count, tc.size), "count=%d size=%d", tc.count, tc.size)
	}
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Paginate(2, 6), 13)
	assert.Equal(t, PageInfo{Page: 2, PageSize: 6, TotalPages: 3, TotalCount: 13}, info)
}
