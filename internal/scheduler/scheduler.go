package scheduler

import (
	"context"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

// Store 是调度器依赖的只读数据源，找不到记录时返回 domain.ErrNotFound
type Store interface {
	GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error)
	GetStationByID(ctx context.Context, id int64) (*domain.Station, error)
	GetOperationByID(ctx context.Context, id int64) (*domain.Operation, error)
	ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error)
}

// 查询员工已有分配时回看的天数，覆盖自然周的工时统计
const assignmentLookback = 8 * 24 * time.Hour

var blockingStatuses = []domain.AssignmentStatus{
	domain.AssignmentScheduled,
	domain.AssignmentConfirmed,
	domain.AssignmentInProgress,
	domain.AssignmentCompleted,
	domain.AssignmentAbsent,
}

// Scheduler 每次调用都重新读取快照，调用之间不保存任何状态
type Scheduler struct {
	parameters *Parameters
	store      Store
}

func New(parameters *Parameters, store Store) (*Scheduler, error) {
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	return &Scheduler{
		parameters: parameters,
		store:      store,
	}, nil
}

func (s *Scheduler) Parameters() *Parameters {
	return s.parameters
}

type AssignmentRequest struct {
	EmployeeID  int64
	OperationID int64
	Window      domain.TimeWindow
}

// AvailableStaff 返回作业时间窗口内每个候选员工的可用性，filter 可按站点或类别预先缩小候选池
func (s *Scheduler) AvailableStaff(ctx context.Context, caller domain.Caller, operationID int64, filter domain.EmployeeFilter) ([]AvailabilityEntry, error) {
	if !caller.Role.CanQueryAnyOperation() {
		return nil, domain.NewForbiddenError("solo supervisores o superiores pueden consultar el personal de una operación")
	}

	op, station, err := s.loadOperation(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStationScope(caller, op); err != nil {
		return nil, err
	}

	if stationID, ok := s.restrictedStation(caller); ok {
		if filter.StationID != nil && *filter.StationID != stationID {
			return nil, domain.NewForbiddenError("solo puede consultar el personal de su propia estación")
		}
		filter.StationID = &stationID
	}
	pool, err := s.store.ListEmployees(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortEmployeesByID(pool)

	window := op.Window(s.parameters.DefaultOperationDuration)
	assignments, err := s.assignmentsFor(ctx, pool, window)
	if err != nil {
		return nil, err
	}

	availability, err := Resolve(window, pool, assignments, ResolveOptions{Station: station})
	if err != nil {
		return nil, err
	}

	return availability.Entries(), nil
}

// ValidateAssignment 只做判断，不写入任何数据
func (s *Scheduler) ValidateAssignment(ctx context.Context, caller domain.Caller, req AssignmentRequest) (*Validation, error) {
	if !caller.Role.CanQueryAnyOperation() && caller.EmployeeID != req.EmployeeID {
		return nil, domain.NewForbiddenError("solo puede validar sus propias asignaciones")
	}

	employee, err := s.store.GetEmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	_, station, err := s.loadOperation(ctx, req.OperationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListAssignments(ctx, s.assignmentFilter([]int64{employee.ID}, req.Window))
	if err != nil {
		return nil, err
	}

	validation := Validate(ValidationInput{
		Employee: employee,
		Station:  station,
		Window:   req.Window,
		Existing: existing,
		Location: s.parameters.Location,
	})

	return &validation, nil
}

// OptimizeStaffing 计算作业的推荐排班方案
func (s *Scheduler) OptimizeStaffing(ctx context.Context, caller domain.Caller, operationID int64) (*domain.StaffingPlan, error) {
	if !caller.Role.CanQueryAnyOperation() {
		return nil, domain.NewForbiddenError("solo supervisores o superiores pueden optimizar una operación")
	}

	op, station, err := s.loadOperation(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, domain.NewMissingStationError(op.ID)
	}

	req, err := Requirement(op, station, s.parameters.StaffingRatio)
	if err != nil {
		return nil, err
	}

	if err := s.checkStationScope(caller, op); err != nil {
		return nil, err
	}
	_, restricted := s.restrictedStation(caller)

	stationID := station.ID
	stationPool, err := s.store.ListEmployees(ctx, domain.EmployeeFilter{StationID: &stationID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortEmployeesByID(stationPool)

	var widerPool []*domain.Employee
	if len(stationPool) < int(req.Minimum) && !restricted {
		widerPool, err = s.store.ListEmployees(ctx, domain.EmployeeFilter{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		sortEmployeesByID(widerPool)
	}

	window := op.Window(s.parameters.DefaultOperationDuration)
	assignments, err := s.assignmentsFor(ctx, mergePools(stationPool, widerPool), window)
	if err != nil {
		return nil, err
	}

	operationAssignments, err := s.store.ListAssignments(ctx, domain.AssignmentFilter{
		OperationID: &op.ID,
		Statuses:    domain.ActiveAssignmentStatuses,
	})
	if err != nil {
		return nil, err
	}

	return Optimize(s.parameters, OptimizeInput{
		Operation:            op,
		Station:              station,
		StationPool:          stationPool,
		WiderPool:            widerPool,
		Assignments:          assignments,
		OperationAssignments: operationAssignments,
	})
}

// CheckAvailability 检查指定员工在窗口内是否空闲，普通员工只能查询自己
func (s *Scheduler) CheckAvailability(ctx context.Context, caller domain.Caller, employeeIDs []int64, window domain.TimeWindow) (map[int64]AvailabilityEntry, error) {
	if !caller.Role.CanQueryAnyOperation() {
		for _, id := range employeeIDs {
			if id != caller.EmployeeID {
				return nil, domain.NewForbiddenError("solo puede consultar su propia disponibilidad")
			}
		}
	}
	if !window.Valid() {
		return nil, domain.NewValidationError([]string{reasonInvalidWindow})
	}

	pool := make([]*domain.Employee, 0, len(employeeIDs))
	seen := make(map[int64]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		employee, err := s.store.GetEmployeeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		pool = append(pool, employee)
	}

	assignments, err := s.assignmentsFor(ctx, pool, window)
	if err != nil {
		return nil, err
	}

	availability, err := Resolve(window, pool, assignments, ResolveOptions{})
	if err != nil {
		return nil, err
	}

	result := make(map[int64]AvailabilityEntry, len(pool))
	for _, entry := range availability.Entries() {
		result[entry.Employee.ID] = entry
	}
	return result, nil
}

// loadOperation 返回作业及其站点，作业没有站点时 station 为空
func (s *Scheduler) loadOperation(ctx context.Context, operationID int64) (*domain.Operation, *domain.Station, error) {
	op, err := s.store.GetOperationByID(ctx, operationID)
	if err != nil {
		return nil, nil, err
	}
	if op.StationID == nil {
		return op, nil, nil
	}

	station, err := s.store.GetStationByID(ctx, *op.StationID)
	if err != nil {
		return nil, nil, err
	}
	return op, station, nil
}

func (s *Scheduler) assignmentsFor(ctx context.Context, pool []*domain.Employee, window domain.TimeWindow) (map[int64][]*domain.Assignment, error) {
	if len(pool) == 0 {
		return map[int64][]*domain.Assignment{}, nil
	}

	ids := make([]int64, len(pool))
	for i, e := range pool {
		ids[i] = e.ID
	}

	assignments, err := s.store.ListAssignments(ctx, s.assignmentFilter(ids, window))
	if err != nil {
		return nil, err
	}
	return groupByEmployee(assignments), nil
}

func (s *Scheduler) assignmentFilter(employeeIDs []int64, window domain.TimeWindow) domain.AssignmentFilter {
	endsAfter := window.Start.Add(-assignmentLookback)
	return domain.AssignmentFilter{
		EmployeeIDs: employeeIDs,
		Statuses:    blockingStatuses,
		EndsAfter:   &endsAfter,
	}
}

// restrictedStation 开启站点限制时，主管只能看到自己站点的员工
func (s *Scheduler) restrictedStation(caller domain.Caller) (int64, bool) {
	if !s.parameters.RestrictSupervisorStation || caller.Role != domain.RoleSupervisor || caller.StationID == nil {
		return 0, false
	}
	return *caller.StationID, true
}

// checkStationScope 开启站点限制时，主管只能查询自己站点的作业
func (s *Scheduler) checkStationScope(caller domain.Caller, op *domain.Operation) error {
	stationID, ok := s.restrictedStation(caller)
	if !ok || op.StationID == nil || *op.StationID == stationID {
		return nil
	}
	return domain.NewForbiddenError("solo puede consultar operaciones de su propia estación")
}
