package paginator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNewResolvesNumber(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		raw    string
		number int
	}{
		{"empty param", 13, "", 1},
		{"first", 13, "1", 1},
		{"second", 13, "2", 2},
		{"not a number", 13, "abc", 1},
		{"past the end", 13, "5", 2},
		{"zero", 13, "0", 2},
		{"negative", 13, "-1", 2},
		{"empty listing", 0, "3", 1},
		{"surrounding spaces", 13, " 2 ", 2},
		{"plus sign", 13, "+2", 2},
		{"overflow", 13, "99999999999999999999999", 2},
		{"negative overflow", 13, "-99999999999999999999999", 2},
		{"fraction", 13, "1.5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.total, 10, tt.raw)
			assert.Equal(t, tt.number, p.Number)
		})
	}
}

func TestPageBounds(t *testing.T) {
	first := New(13, 10, "1")
	assert.Equal(t, 2, first.NumPages)
	assert.Equal(t, 0, first.Offset())
	assert.Equal(t, 10, first.Limit())
	assert.Equal(t, 10, first.Len())
	assert.Equal(t, 1, first.StartIndex())
	assert.Equal(t, 10, first.EndIndex())
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.NextNumber())

	second := New(13, 10, "2")
	assert.Equal(t, 10, second.Offset())
	assert.Equal(t, 3, second.Len())
	assert.Equal(t, 11, second.StartIndex())
	assert.Equal(t, 13, second.EndIndex())
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
	assert.Equal(t, 1, second.PreviousNumber())
	assert.True(t, second.HasOtherPages())
}

func TestEmptyListing(t *testing.T) {
	p := New(0, 10, "")
	assert.Equal(t, 1, p.NumPages)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 0, p.StartIndex())
	assert.Equal(t, 0, p.EndIndex())
	assert.False(t, p.HasOtherPages())
}

func TestExactMultiple(t *testing.T) {
	p := New(20, 10, "2")
	assert.Equal(t, 2, p.NumPages)
	assert.Equal(t, 10, p.Len())
	assert.False(t, p.HasNext())
}

func TestInvalidPerPageFallsBack(t *testing.T) {
	p := New(25, 0, "")
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 3, p.NumPages)
}

func TestPageRange(t *testing.T) {
	p := New(35, 10, "1")
	if diff := cmp.Diff([]int{1, 2, 3, 4}, p.PageRange()); diff != "" {
		t.Errorf("PageRange() mismatch (-want +got):\n%s", diff)
	}
}
