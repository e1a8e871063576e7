package domain

import "time"

// TimeWindow 是左闭右开区间 [Start, End)
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) Valid() bool {
	return w.Start.Before(w.End)
}

func (w TimeWindow) Duration() time.Duration {
	if !w.Valid() {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Overlaps 长度为 0 或倒置的窗口不与任何窗口重叠
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End) && w.Valid() && other.Valid()
}

// Intersect 返回两个窗口的交集时长
func (w TimeWindow) Intersect(other TimeWindow) time.Duration {
	if !w.Overlaps(other) {
		return 0
	}
	start := w.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := w.End
	if other.End.Before(end) {
		end = other.End
	}
	return end.Sub(start)
}
