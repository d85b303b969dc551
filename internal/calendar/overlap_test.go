package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOverlaps(t *testing.T) {
	t.Run("double booked employee", func(t *testing.T) {
		engine := NewEngine(DefaultOptions(), nil)
		snapshot := []EmployeeData{{
			Employee: "Alice",
			Records: []RecordGroup{
				leads(LeadRecord{Firstname: "during", Create: "03/12/2024 9:30AM"}),
				events(
					EventRecord{Title: "Sync", Start: "03/12/2024 9:00AM", End: "03/12/2024 10:00AM", Employees: []string{"Alice"}},
					EventRecord{Title: "Review", Start: "03/12/2024 9:45AM", End: "03/12/2024 11:00AM", Employees: []string{"Alice"}},
				),
			},
		}}

		items, err := engine.Layout(snapshot, week)
		require.NoError(t, err)
		require.Len(t, items, 3)

		overlaps := DetectOverlaps(items)
		require.Equal(t, []Overlap{
			{Day: 2, Column: 1, Employee: "Alice", First: 0, Second: 1},
			{Day: 2, Column: 1, Employee: "Alice", First: 1, Second: 2},
		}, overlaps)
	})

	t.Run("back to back events do not overlap", func(t *testing.T) {
		items := []PositionedItem{
			{Day: 1, Column: 1, StartMinute: 540, DurationMinutes: 60, Shape: ShapeInterval},
			{Day: 1, Column: 1, StartMinute: 600, DurationMinutes: 30, Shape: ShapeInterval},
		}
		assert.Empty(t, DetectOverlaps(items))
	})

	t.Run("same time in different columns or days", func(t *testing.T) {
		items := []PositionedItem{
			{Day: 1, Column: 1, StartMinute: 540, DurationMinutes: 60},
			{Day: 1, Column: 2, StartMinute: 540, DurationMinutes: 60},
			{Day: 2, Column: 1, StartMinute: 540, DurationMinutes: 60},
		}
		overlaps := DetectOverlaps(items)
		require.NotNil(t, overlaps)
		assert.Empty(t, overlaps)
	})

	t.Run("points at the same minute collide", func(t *testing.T) {
		items := []PositionedItem{
			{Day: 0, Column: 3, Employee: "Carol", StartMinute: 545, Shape: ShapePoint},
			{Day: 0, Column: 3, Employee: "Carol", StartMinute: 545, Shape: ShapePoint},
			{Day: 0, Column: 3, Employee: "Carol", StartMinute: 546, Shape: ShapePoint},
		}
		assert.Equal(t, []Overlap{{Day: 0, Column: 3, Employee: "Carol", First: 0, Second: 1}}, DetectOverlaps(items))
	})
}
