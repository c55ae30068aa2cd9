package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism-portal/events-portal-backend/internal/status"
)

func filterFixture() []Event {
	musicCat := uuid.MustParse("8a7e9f00-1111-4a2b-9c3d-000000000001")
	sportCat := uuid.MustParse("8a7e9f00-1111-4a2b-9c3d-000000000002")
	day := func(d int) time.Time {
		return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
	}

	return []Event{
		{
			Title:       "Desert Jazz Nights",
			Description: "Open-air concerts in the old town",
			CategoryID:  musicCat,
			EventType:   "festival",
			StatusCode:  string(status.Published),
			StartDate:   day(1),
			EndDate:     day(3),
		},
		{
			Title:       "Coastal Marathon",
			Description: "Annual seaside running race",
			CategoryID:  sportCat,
			EventType:   "sports",
			StatusCode:  string(status.Published),
			StartDate:   day(10),
			EndDate:     day(10),
		},
		{
			Title:       "Jazz Workshop",
			Description: "Masterclass for local musicians",
			CategoryID:  musicCat,
			EventType:   "workshop",
			StatusCode:  string(status.Draft),
			StartDate:   day(20),
			EndDate:     day(21),
		},
	}
}

func titles(evts []Event) []string {
	out := make([]string, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Title)
	}
	return out
}

func TestApplyFiltersEmptyIsNoOp(t *testing.T) {
	evts := filterFixture()

	out := ApplyFilters(evts, Filters{})
	assert.Equal(t, titles(evts), titles(out))
}

func TestApplyFiltersSearchIsCaseInsensitive(t *testing.T) {
	evts := filterFixture()

	out := ApplyFilters(evts, Filters{Search: "JAZZ"})
	assert.ElementsMatch(t, []string{"Desert Jazz Nights", "Jazz Workshop"}, titles(out))

	// Description text is searched too.
	out = ApplyFilters(evts, Filters{Search: "seaside"})
	require.Len(t, out, 1)
	assert.Equal(t, "Coastal Marathon", out[0].Title)
}

func TestApplyFiltersByField(t *testing.T) {
	evts := filterFixture()
	musicCat := evts[0].CategoryID

	out := ApplyFilters(evts, Filters{CategoryID: &musicCat})
	assert.ElementsMatch(t, []string{"Desert Jazz Nights", "Jazz Workshop"}, titles(out))

	out = ApplyFilters(evts, Filters{Status: status.Draft})
	require.Len(t, out, 1)
	assert.Equal(t, "Jazz Workshop", out[0].Title)

	out = ApplyFilters(evts, Filters{EventType: "sports"})
	require.Len(t, out, 1)
	assert.Equal(t, "Coastal Marathon", out[0].Title)
}

func TestApplyFiltersCombineWithAnd(t *testing.T) {
	evts := filterFixture()
	musicCat := evts[0].CategoryID

	out := ApplyFilters(evts, Filters{Search: "jazz", CategoryID: &musicCat, Status: status.Published})
	require.Len(t, out, 1)
	assert.Equal(t, "Desert Jazz Nights", out[0].Title)

	// No event satisfies both.
	out = ApplyFilters(evts, Filters{Search: "jazz", EventType: "sports"})
	assert.Empty(t, out)
}

func TestApplyFiltersDateRangeIsInclusive(t *testing.T) {
	evts := filterFixture()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

	out := ApplyFilters(evts, Filters{StartDate: &from, EndDate: &to})
	assert.ElementsMatch(t, []string{"Desert Jazz Nights", "Coastal Marathon"}, titles(out))

	// Narrowing past an event's exact start excludes it.
	from = from.Add(time.Second)
	out = ApplyFilters(evts, Filters{StartDate: &from, EndDate: &to})
	require.Len(t, out, 1)
	assert.Equal(t, "Coastal Marathon", out[0].Title)
}

// Filter order never changes the result.
func TestApplyFiltersCommute(t *testing.T) {
	evts := filterFixture()
	musicCat := evts[0].CategoryID

	combined := Filters{Search: "jazz", CategoryID: &musicCat, Status: status.Published}
	direct := ApplyFilters(evts, combined)
	staged := ApplyFilters(ApplyFilters(ApplyFilters(evts, Filters{Status: status.Published}), Filters{CategoryID: &musicCat}), Filters{Search: "jazz"})

	assert.Equal(t, titles(direct), titles(staged))
}
