package sequence_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travenion/internal/domain"
	"travenion/internal/sequence"
)

// dayOf builds a day's attraction set with the given names at orders 1..N.
func dayOf(dayID uuid.UUID, names ...string) []domain.Attraction {
	attrs := make([]domain.Attraction, len(names))
	for i, name := range names {
		attrs[i] = domain.Attraction{
			ID:         uuid.New(),
			DayID:      dayID,
			Name:       name,
			VisitOrder: i + 1,
		}
	}
	return attrs
}

// namesByOrder returns the attraction names sorted by their visit order, and
// fails the test if the orders are not a dense 1..N sequence.
func namesByOrder(t *testing.T, attrs []domain.Attraction) []string {
	t.Helper()
	byOrder := make(map[int]string, len(attrs))
	for _, a := range attrs {
		_, dup := byOrder[a.VisitOrder]
		require.False(t, dup, "duplicate visit order %d", a.VisitOrder)
		byOrder[a.VisitOrder] = a.Name
	}
	out := make([]string, 0, len(attrs))
	for i := 1; i <= len(attrs); i++ {
		name, ok := byOrder[i]
		require.True(t, ok, "gap at visit order %d", i)
		out = append(out, name)
	}
	return out
}

func TestAppend_EmptyDay(t *testing.T) {
	got := sequence.Append(nil, domain.Attraction{Name: "Louvre"})

	assert.Equal(t, 1, got.VisitOrder)
}

func TestAppend_AssignsNextOrder(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	got := sequence.Append(day, domain.Attraction{Name: "D"})

	assert.Equal(t, 4, got.VisitOrder)
	// The existing set is untouched.
	assert.Equal(t, []string{"A", "B", "C"}, namesByOrder(t, day))
}

func TestRemove_CompactsOrders(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C", "D")

	got, err := sequence.Remove(day, day[1].ID) // remove B at order 2

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, namesByOrder(t, got))
}

func TestRemove_First(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	got, err := sequence.Remove(day, day[0].ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, namesByOrder(t, got))
}

func TestRemove_Last(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	got, err := sequence.Remove(day, day[2].ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, namesByOrder(t, got))
}

func TestRemove_OnlyAttraction(t *testing.T) {
	day := dayOf(uuid.New(), "A")

	got, err := sequence.Remove(day, day[0].ID)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemove_UnknownID(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B")

	_, err := sequence.Remove(day, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReorder_MoveLater(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C", "D", "E")

	got, err := sequence.Reorder(day, day[1].ID, 4) // B: 2 → 4

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D", "B", "E"}, namesByOrder(t, got))
}

func TestReorder_MoveEarlier(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C", "D", "E")

	got, err := sequence.Reorder(day, day[3].ID, 2) // D: 4 → 2

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D", "B", "C", "E"}, namesByOrder(t, got))
}

func TestReorder_ToFirst(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	got, err := sequence.Reorder(day, day[2].ID, 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, namesByOrder(t, got))
}

func TestReorder_ToLast(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	got, err := sequence.Reorder(day, day[0].ID, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, namesByOrder(t, got))
}

func TestReorder_SamePosition(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	got, err := sequence.Reorder(day, day[1].ID, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, namesByOrder(t, got))
}

func TestReorder_OutOfRange(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B", "C")

	for _, newOrder := range []int{0, -1, 4} {
		_, err := sequence.Reorder(day, day[0].ID, newOrder)
		assert.ErrorIs(t, err, domain.ErrValidation, "newOrder=%d", newOrder)
	}
	// Failed reorders leave the input unchanged.
	assert.Equal(t, []string{"A", "B", "C"}, namesByOrder(t, day))
}

func TestReorder_UnknownID(t *testing.T) {
	day := dayOf(uuid.New(), "A", "B")

	_, err := sequence.Reorder(day, uuid.New(), 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBulkReplace_AssignsOrdersByPosition(t *testing.T) {
	entries := []domain.Attraction{
		{Name: "Colosseum"},
		{Name: "Forum"},
		{Name: "Pantheon"},
	}

	got, err := sequence.BulkReplace(entries)

	require.NoError(t, err)
	assert.Equal(t, []string{"Colosseum", "Forum", "Pantheon"}, namesByOrder(t, got))
}

func TestBulkReplace_Idempotent(t *testing.T) {
	entries := []domain.Attraction{{Name: "X"}, {Name: "Y"}}

	first, err := sequence.BulkReplace(entries)
	require.NoError(t, err)
	second, err := sequence.BulkReplace(entries)
	require.NoError(t, err)

	assert.Equal(t, namesByOrder(t, first), namesByOrder(t, second))
}

func TestBulkReplace_EmptyName(t *testing.T) {
	entries := []domain.Attraction{{Name: "X"}, {Name: "   "}}

	_, err := sequence.BulkReplace(entries)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBulkReplace_EmptyList(t *testing.T) {
	got, err := sequence.BulkReplace(nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestDensityAcrossOperationSequence drives a mixed sequence of appends,
// removes, and reorders and checks the dense 1..N property after every step.
func TestDensityAcrossOperationSequence(t *testing.T) {
	dayID := uuid.New()
	day := dayOf(dayID, "A", "B", "C")

	day = append(day, sequence.Append(day, domain.Attraction{ID: uuid.New(), DayID: dayID, Name: "D"}))
	namesByOrder(t, day)

	day, err := sequence.Reorder(day, day[3].ID, 1)
	require.NoError(t, err)
	namesByOrder(t, day)

	day, err = sequence.Remove(day, day[2].ID)
	require.NoError(t, err)
	namesByOrder(t, day)

	day = append(day, sequence.Append(day, domain.Attraction{ID: uuid.New(), DayID: dayID, Name: "E"}))
	day, err = sequence.Reorder(day, day[0].ID, len(day))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "E", "D"}, namesByOrder(t, day))
}
