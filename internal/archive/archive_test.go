package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemsAreCopies(t *testing.T) {
	a := Items()
	a[0].Title = "changed"
	assert.NotEqual(t, "changed", Items()[0].Title)
}

func TestFind(t *testing.T) {
	it, ok := Find("2024-summit-report")
	assert.True(t, ok)
	assert.Equal(t, 2024, it.Year)
	_, ok = Find("1999-report")
	assert.False(t, ok)
}

// TestSourcesOnlyAvailable expects unavailable items to be missing from the PDF mapping.
func TestSourcesOnlyAvailable(t *testing.T) {
	src := Sources()
	assert.Contains(t, src, "2025-summit-report")
	assert.NotContains(t, src, "2023-summit-report")
	for id, u := range src {
		assert.Equal(t, storageBase+id+".pdf", u)
	}
}
