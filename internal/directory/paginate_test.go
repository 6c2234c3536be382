package directory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escort-directory/internal/profiles"
)

func makeProfiles(n int) []*profiles.Profile {
	list := make([]*profiles.Profile, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, escort(fmt.Sprintf("p%03d", i), nil))
	}
	return list
}

func TestPaginateEmptyList(t *testing.T) {
	page := Paginate(nil, 1, DefaultPageSize)

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.TotalCount)
}

func TestPaginateFirstPage(t *testing.T) {
	list := makeProfiles(70)

	page := Paginate(list, 1, DefaultPageSize)
	require.Len(t, page.Items, 28)
	assert.Equal(t, "p000", page.Items[0].ID)
	assert.Equal(t, "p027", page.Items[27].ID)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 70, page.TotalCount)
}

func TestPaginateLastPageIsPartial(t *testing.T) {
	list := makeProfiles(70)

	page := Paginate(list, 3, DefaultPageSize)
	require.Len(t, page.Items, 14)
	assert.Equal(t, "p056", page.Items[0].ID)
	assert.Equal(t, "p069", page.Items[13].ID)
}

func TestPaginateBeyondRangeIsEmpty(t *testing.T) {
	list := makeProfiles(30)

	page := Paginate(list, 5, DefaultPageSize)
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 30, page.TotalCount)
}

func TestPaginatePagesCoverEveryItemOnce(t *testing.T) {
	list := makeProfiles(95)

	seen := make(map[string]bool)
	total := 0
	for p := 1; p <= 4; p++ {
		page := Paginate(list, p, DefaultPageSize)
		for _, item := range page.Items {
			assert.False(t, seen[item.ID], "item repeated across pages")
			seen[item.ID] = true
		}
		total += len(page.Items)
	}

	assert.Equal(t, 95, total)
}

func TestPaginateExactMultiple(t *testing.T) {
	list := makeProfiles(56)

	page := Paginate(list, 2, DefaultPageSize)
	require.Len(t, page.Items, 28)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPaginateZeroPageSizeUsesDefault(t *testing.T) {
	list := makeProfiles(30)

	page := Paginate(list, 1, 0)
	assert.Len(t, page.Items, DefaultPageSize)
}
