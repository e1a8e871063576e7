package domain

import (
	"slices"
	"time"
)

type AssignmentStatus string

const (
	AssignmentScheduled  AssignmentStatus = "SCHEDULED"
	AssignmentConfirmed  AssignmentStatus = "CONFIRMED"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentAbsent     AssignmentStatus = "ABSENT"
	AssignmentCancelled  AssignmentStatus = "CANCELLED"
)

var AssignmentStatuses = []AssignmentStatus{
	AssignmentScheduled,
	AssignmentConfirmed,
	AssignmentInProgress,
	AssignmentCompleted,
	AssignmentAbsent,
	AssignmentCancelled,
}

// ActiveAssignmentStatuses 对应数据库排他约束中的状态集合
var ActiveAssignmentStatuses = []AssignmentStatus{
	AssignmentScheduled,
	AssignmentConfirmed,
	AssignmentInProgress,
}

func (s AssignmentStatus) Valid() bool {
	return slices.Contains(AssignmentStatuses, s)
}

// Active 表示该分配仍在占用员工
func (s AssignmentStatus) Active() bool {
	switch s {
	case AssignmentScheduled, AssignmentConfirmed, AssignmentInProgress:
		return true
	case AssignmentCompleted, AssignmentAbsent, AssignmentCancelled:
		return false
	}
	return false
}

// BlocksSchedule 除了已取消的分配，其余都参与时间冲突检查
func (s AssignmentStatus) BlocksSchedule() bool {
	switch s {
	case AssignmentScheduled, AssignmentConfirmed, AssignmentInProgress, AssignmentCompleted, AssignmentAbsent:
		return true
	case AssignmentCancelled:
		return false
	}
	return false
}

type Assignment struct {
	ID          int64            `json:"id"`
	EmployeeID  int64            `json:"employeeID"`
	OperationID int64            `json:"operationID"`
	Function    string           `json:"function"`
	StartTime   time.Time        `json:"startTime"`
	EndTime     time.Time        `json:"endTime"`
	CostRate    float64          `json:"costRate"`
	Status      AssignmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	Version     int32            `json:"-"`
}

func (a *Assignment) Window() TimeWindow {
	return TimeWindow{Start: a.StartTime, End: a.EndTime}
}

// CountsTowardHours 缺勤和取消的分配不计入工时
func (s AssignmentStatus) CountsTowardHours() bool {
	switch s {
	case AssignmentScheduled, AssignmentConfirmed, AssignmentInProgress, AssignmentCompleted:
		return true
	case AssignmentAbsent, AssignmentCancelled:
		return false
	}
	return false
}

// AssignmentFilter 为空的字段表示不过滤
type AssignmentFilter struct {
	EmployeeIDs []int64
	OperationID *int64
	Statuses    []AssignmentStatus
	EndsAfter   *time.Time
}

// Terminal 终态的分配不允许再变更状态
func (s AssignmentStatus) Terminal() bool {
	switch s {
	case AssignmentCompleted, AssignmentAbsent, AssignmentCancelled:
		return true
	case AssignmentScheduled, AssignmentConfirmed, AssignmentInProgress:
		return false
	}
	return false
}
