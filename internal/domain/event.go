package domain

import "time"

// SchedulingEventsChannel 是 WebSocket 网关订阅的 redis 频道
const SchedulingEventsChannel = "scheduling.events"

const (
	EventAssignmentCreated       = "assignment.created"
	EventAssignmentStatusChanged = "assignment.status_changed"
)

type SchedulingEvent struct {
	Type       string      `json:"type"`
	EmployeeID int64       `json:"employeeID"`
	Assignment *Assignment `json:"assignment"`
	OccurredAt time.Time   `json:"occurredAt"`
}
