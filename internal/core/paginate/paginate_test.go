package paginate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestProject_PagesConcatenateToSource(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for n := 0; n <= 23; n++ {
			items := seq(n)

			first := Project(items, 1, size)
			wantPages := int(math.Ceil(float64(n) / float64(size)))
			if n == 0 {
				wantPages = 1
			}
			require.Equal(t, wantPages, first.TotalPages, "n=%d size=%d", n, size)

			var joined []int
			for p := 1; p <= first.TotalPages; p++ {
				page := Project(items, p, size)
				assert.Equal(t, p, page.Number)
				assert.LessOrEqual(t, len(page.Items), size)
				joined = append(joined, page.Items...)
			}

			if n == 0 {
				assert.Empty(t, joined)
			} else {
				assert.Equal(t, items, joined, "n=%d size=%d", n, size)
			}
		}
	}
}

func TestProject_ClampsPageNumber(t *testing.T) {
	items := seq(12)

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"negative", -4, 1},
		{"zero", 0, 1},
		{"first", 1, 1},
		{"last", 3, 3},
		{"beyond", 4, 3},
		{"far beyond", math.MaxInt32, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Project(items, tt.requested, 5)
			assert.Equal(t, tt.want, page.Number)
			assert.Equal(t, 3, page.TotalPages)
		})
	}
}

func TestProject_EmptyIsSinglePage(t *testing.T) {
	page := Project([]string{}, 3, 5)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasPrev())
	assert.False(t, page.HasNext())
}

func TestProject_DeletingLastItemStepsBack(t *testing.T) {
	items := seq(6)
	page := Project(items, 2, 5)
	require.Equal(t, []int{5}, page.Items)

	items = items[:5]
	page = Project(items, page.Number, 5)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, page.Items)
}

func TestProject_InvalidSizeUsesDefault(t *testing.T) {
	page := Project(seq(12), 1, 0)

	assert.Len(t, page.Items, DefaultPageSize)
	assert.Equal(t, 3, page.TotalPages)
}

func TestProject_Navigation(t *testing.T) {
	items := seq(11)

	assert.True(t, Project(items, 1, 5).HasNext())
	assert.False(t, Project(items, 1, 5).HasPrev())
	assert.True(t, Project(items, 2, 5).HasPrev())
	assert.True(t, Project(items, 2, 5).HasNext())
	assert.False(t, Project(items, 3, 5).HasNext())
}

func TestProject_SliceIsolation(t *testing.T) {
	items := seq(10)
	page := Project(items, 1, 5)

	page.Items = append(page.Items, 99)

	assert.Equal(t, 5, items[5])
}
