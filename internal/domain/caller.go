package domain

// Caller 是经过认证的调用者，由 handler 显式传给调度器
type Caller struct {
	EmployeeID int64
	Role       Role
	StationID  *int64
}
