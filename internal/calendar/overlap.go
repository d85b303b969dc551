package calendar

import "sort"

// Overlap pairs two positioned items that share a column on the same day and
// whose spans intersect. First and Second index the laid out items, First < Second.
type Overlap struct {
	Day      int    `json:"day"`
	Column   int    `json:"column"`
	Employee string `json:"employee"`
	First    int    `json:"first"`
	Second   int    `json:"second"`
}

type overlapCell struct {
	day    int
	column int
}

// DetectOverlaps lists every intersecting pair of items per employee and day.
// A point record occupies its single minute.
func DetectOverlaps(items []PositionedItem) []Overlap {
	cells := make(map[overlapCell][]int)
	order := make([]overlapCell, 0)
	for i, item := range items {
		cell := overlapCell{day: item.Day, column: item.Column}
		if _, ok := cells[cell]; !ok {
			order = append(order, cell)
		}
		cells[cell] = append(cells[cell], i)
	}

	overlaps := make([]Overlap, 0)
	for _, cell := range order {
		indexes := cells[cell]
		for a := 0; a < len(indexes); a++ {
			for b := a + 1; b < len(indexes); b++ {
				first, second := items[indexes[a]], items[indexes[b]]
				if spansIntersect(first, second) {
					overlaps = append(overlaps, Overlap{
						Day:      cell.day,
						Column:   cell.column,
						Employee: first.Employee,
						First:    indexes[a],
						Second:   indexes[b],
					})
				}
			}
		}
	}

	sort.SliceStable(overlaps, func(i, j int) bool {
		if overlaps[i].First != overlaps[j].First {
			return overlaps[i].First < overlaps[j].First
		}
		return overlaps[i].Second < overlaps[j].Second
	})
	return overlaps
}

func spansIntersect(a, b PositionedItem) bool {
	aStart, aEnd := span(a)
	bStart, bEnd := span(b)
	return aStart < bEnd && bStart < aEnd
}

func span(item PositionedItem) (int, int) {
	duration := item.DurationMinutes
	if duration < 1 {
		duration = 1
	}
	return item.StartMinute, item.StartMinute + duration
}
