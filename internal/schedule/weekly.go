package schedule

// DayEntry is one user's availability on one day of the merged view.
type DayEntry struct {
	Name string `json:"name"`
	Slot string `json:"slot"`
}

// BuildWeekly merges already-fetched schedules into the display structure:
// for every date of the window an ordered list of who is available and
// when. Order is always self first, then friends by ascending relation ID
// (the order friendIDs arrives in). Users without an entry on a given day
// are skipped entirely for that day.
//
// Pure function over its inputs, the single GetRange call that produced
// schedules is the only storage read a weekly view needs.
func BuildWeekly(selfID uint, friendIDs []uint, dates []string, names map[uint]string, schedules map[Key]string) map[string][]DayEntry {
	order := make([]uint, 0, len(friendIDs)+1)
	order = append(order, selfID)
	order = append(order, friendIDs...)

	out := make(map[string][]DayEntry, len(dates))

	for _, date := range dates {
		row := make([]DayEntry, 0, len(order))

		for _, uid := range order {
			slot, ok := schedules[Key{UserID: uid, Date: date}]
			if !ok {
				continue
			}

			row = append(row, DayEntry{
				Name: names[uid],
				Slot: slot,
			})
		}

		out[date] = row
	}

	return out
}
