package gantt

import "ganttview/internal/model"

// ResolveOverlaps pushes each series that starts before its predecessor ends
// forward by the overlap, keeping its duration. Series are edited in place;
// the return value is how many moved.
func ResolveOverlaps(groups []model.Group) int {
	moved := 0
	for gi := range groups {
		series := groups[gi].Series
		prev := -1
		for i := range series {
			s := &series[i]
			if !s.HasDates() {
				continue
			}
			if prev >= 0 && s.Start.Before(series[prev].End) {
				delta := series[prev].End.Sub(s.Start)
				s.Start = s.Start.Add(delta)
				s.End = s.End.Add(delta)
				moved++
			}
			prev = i
		}
	}
	return moved
}
