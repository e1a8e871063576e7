package scheduler

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

var base = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) // 周二

func at(hour, minute int) time.Time {
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func window(startHour, endHour int) domain.TimeWindow {
	return domain.TimeWindow{Start: at(startHour, 0), End: at(endHour, 0)}
}

func ptr[T any](v T) *T {
	return &v
}

func testParameters() *Parameters {
	return &Parameters{
		StaffingRatio:            50,
		SkillMatchWeight:         3,
		CertificationBonus:       1,
		WorkloadPenalty:          2,
		DefaultOperationDuration: 2 * time.Hour,
		Location:                 time.UTC,
	}
}

func newEmployee(id int64, stationID int64) *domain.Employee {
	return &domain.Employee{
		ID:        id,
		FullName:  "Empleado " + string(rune('A'+id-1)),
		Role:      domain.RoleEmployee,
		Category:  domain.CategoryRamp,
		StationID: ptr(stationID),
		IsActive:  true,
	}
}

func newAssignment(id, employeeID, operationID int64, w domain.TimeWindow, status domain.AssignmentStatus) *domain.Assignment {
	return &domain.Assignment{
		ID:          id,
		EmployeeID:  employeeID,
		OperationID: operationID,
		Function:    "Rampa",
		StartTime:   w.Start,
		EndTime:     w.End,
		Status:      status,
	}
}

func hasReasonPrefix(reasons []string, prefix string) bool {
	return slices.ContainsFunc(reasons, func(r string) bool {
		return strings.HasPrefix(r, prefix)
	})
}

// fakeStore 是内存中的 Store 实现
type fakeStore struct {
	employees   map[int64]*domain.Employee
	stations    map[int64]*domain.Station
	operations  map[int64]*domain.Operation
	assignments []*domain.Assignment
	listCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees:  make(map[int64]*domain.Employee),
		stations:   make(map[int64]*domain.Station),
		operations: make(map[int64]*domain.Operation),
	}
}

func (f *fakeStore) GetEmployeeByID(_ context.Context, id int64) (*domain.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, domain.NewNotFoundError("empleado", id)
	}
	return e, nil
}

func (f *fakeStore) ListEmployees(_ context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	f.listCalls++
	out := make([]*domain.Employee, 0)
	for _, e := range f.employees {
		if filter.StationID != nil && !e.AtStation(*filter.StationID) {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) GetStationByID(_ context.Context, id int64) (*domain.Station, error) {
	s, ok := f.stations[id]
	if !ok {
		return nil, domain.NewNotFoundError("estación", id)
	}
	return s, nil
}

func (f *fakeStore) GetOperationByID(_ context.Context, id int64) (*domain.Operation, error) {
	op, ok := f.operations[id]
	if !ok {
		return nil, domain.NewNotFoundError("operación", id)
	}
	return op, nil
}

func (f *fakeStore) ListAssignments(_ context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error) {
	out := make([]*domain.Assignment, 0)
	for _, a := range f.assignments {
		if len(filter.EmployeeIDs) > 0 && !slices.Contains(filter.EmployeeIDs, a.EmployeeID) {
			continue
		}
		if filter.OperationID != nil && a.OperationID != *filter.OperationID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, a.Status) {
			continue
		}
		if filter.EndsAfter != nil && !a.EndTime.After(*filter.EndsAfter) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
