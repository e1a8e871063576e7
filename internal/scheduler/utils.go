package scheduler

import (
	"sort"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

func intersectionSize(a, b []string) int {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	n := 0
	for _, s := range b {
		if seen[s] {
			n++
			seen[s] = false // 重复项只计一次
		}
	}
	return n
}

func activeAssignmentCount(assignments []*domain.Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.Status.Active() {
			n++
		}
	}
	return n
}

func sortEmployeesByID(employees []*domain.Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].ID < employees[j].ID
	})
}

func sortEntriesByEmployeeID(entries []AvailabilityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Employee.ID < entries[j].Employee.ID
	})
}

// mergePools 合并两个候选池并按 ID 去重
func mergePools(primary, secondary []*domain.Employee) []*domain.Employee {
	merged := make([]*domain.Employee, 0, len(primary)+len(secondary))
	seen := make(map[int64]bool, len(primary)+len(secondary))
	for _, pool := range [][]*domain.Employee{primary, secondary} {
		for _, e := range pool {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			merged = append(merged, e)
		}
	}
	sortEmployeesByID(merged)
	return merged
}

func groupByEmployee(assignments []*domain.Assignment) map[int64][]*domain.Assignment {
	grouped := make(map[int64][]*domain.Assignment)
	for _, a := range assignments {
		grouped[a.EmployeeID] = append(grouped[a.EmployeeID], a)
	}
	return grouped
}
