package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func region(title string) *struct {
	Title string `json:"title"`
} {
	return &struct {
		Title string `json:"title"`
	}{Title: title}
}

func titles(items []facility) []string {
	out := make([]string, 0, len(items))
	for _, f := range items {
		out = append(out, f.Title)
	}
	return out
}

func TestDeduplicateFacilities(t *testing.T) {
	items := []facility{
		{ID: "1", Title: "A", Region: region("X")},
		{ID: "2", Title: "A", Region: region("Y")},
		{ID: "3", Title: "B", Region: region("Z")},
	}

	deduplicateFacilities(items)

	assert.Equal(t, []string{"A X", "A Y", "B"}, titles(items),
		"colliding titles get their region appended, unique ones do not")
}

func TestDeduplicateFacilities_ThreeWayCollision(t *testing.T) {
	items := []facility{
		{ID: "1", Title: "Clinic", Region: region("North")},
		{ID: "2", Title: "Clinic", Region: region("South")},
		{ID: "3", Title: "Clinic", Region: region("East")},
	}

	deduplicateFacilities(items)

	assert.Equal(t, []string{"Clinic North", "Clinic South", "Clinic East"}, titles(items))
}

func TestDeduplicateFacilities_MissingRegionLeavesTitle(t *testing.T) {
	items := []facility{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "A", Region: region("Y")},
	}

	deduplicateFacilities(items)

	assert.Equal(t, []string{"A", "A Y"}, titles(items),
		"no region to disambiguate with leaves the title as is")
}

func TestDeduplicateFacilities_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		deduplicateFacilities(nil)
		deduplicateFacilities([]facility{})
	})
}
