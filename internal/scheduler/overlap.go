package scheduler

import "github.com/aeropista-dev/ground-ops/backend/internal/domain"

// Overlaps 判断两个左闭右开区间是否相交
func Overlaps(a, b domain.TimeWindow) bool {
	return a.Overlaps(b)
}

// conflictingAssignments 返回与窗口重叠且未取消的分配
func conflictingAssignments(window domain.TimeWindow, assignments []*domain.Assignment) []*domain.Assignment {
	conflicts := make([]*domain.Assignment, 0)
	for _, a := range assignments {
		if !a.Status.BlocksSchedule() {
			continue
		}
		if Overlaps(window, a.Window()) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts
}
