package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClampsInputs(t *testing.T) {
	tests := []struct {
		name     string
		in       Params
		page     int
		pageSize int
	}{
		{name: "zero values", in: Params{}, page: 1, pageSize: DefaultPageSize},
		{name: "negative page", in: Params{Page: -3, PageSize: 20}, page: 1, pageSize: 20},
		{name: "oversized", in: Params{Page: 2, PageSize: 500}, page: 2, pageSize: MaxPageSize},
		{name: "in range", in: Params{Page: 4, PageSize: 25}, page: 4, pageSize: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.pageSize, got.PageSize)
		})
	}
}

func TestPageDecodesBackendEnvelope(t *testing.T) {
	payload := `{"records":[1,2],"total":250,"current":1,"size":100,"pages":3}`

	var page Page[int]
	require.NoError(t, json.Unmarshal([]byte(payload), &page))

	assert.Equal(t, []int{1, 2}, page.Records)
	assert.Equal(t, int64(250), page.Total)
	assert.Equal(t, 1, page.Current)
	assert.Equal(t, 100, page.Size)
	assert.Equal(t, 3, page.PageCount())
	assert.True(t, page.HasNext())
}

func TestPageMath(t *testing.T) {
	page := Page[int]{Records: []int{1, 2, 3}, Total: 23, Current: 2, Size: 10}
	assert.Equal(t, 3, page.PageCount())
	assert.True(t, page.HasNext())

	last := Page[int]{Total: 23, Current: 3, Size: 10}
	assert.False(t, last.HasNext())

	// The backend's recorded page count wins over the computed one.
	recorded := Page[int]{Total: 23, Current: 3, Size: 10, Pages: 4}
	assert.Equal(t, 4, recorded.PageCount())
	assert.True(t, recorded.HasNext())

	empty := Page[int]{}
	assert.Equal(t, 0, empty.PageCount())
	assert.False(t, empty.HasNext())
}
