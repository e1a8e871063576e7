package domain

import "time"

type OperationType string

const (
	OperationArrival   OperationType = "ARRIVAL"
	OperationDeparture OperationType = "DEPARTURE"
)

func (t OperationType) Valid() bool {
	switch t {
	case OperationArrival, OperationDeparture:
		return true
	}
	return false
}

type OperationStatus string

const (
	OperationScheduled  OperationStatus = "SCHEDULED"
	OperationInProgress OperationStatus = "IN_PROGRESS"
	OperationCompleted  OperationStatus = "COMPLETED"
	OperationDelayed    OperationStatus = "DELAYED"
	OperationCancelled  OperationStatus = "CANCELLED"
)

type Operation struct {
	ID               int64           `json:"id"`
	FlightNumber     string          `json:"flightNumber"`
	ScheduledTime    time.Time       `json:"scheduledTime"`
	Type             OperationType   `json:"type"`
	PassengerCount   int32           `json:"passengerCount"`
	StationID        *int64          `json:"stationID"`
	Status           OperationStatus `json:"status"`
	EstimatedMinutes *int32          `json:"estimatedMinutes"`
	Version          int32           `json:"-"`
}

// Window 返回作业占用的时间窗口，没有预估时长时使用 defaultDuration
func (o *Operation) Window(defaultDuration time.Duration) TimeWindow {
	duration := defaultDuration
	if o.EstimatedMinutes != nil && *o.EstimatedMinutes > 0 {
		duration = time.Duration(*o.EstimatedMinutes) * time.Minute
	}
	return TimeWindow{Start: o.ScheduledTime, End: o.ScheduledTime.Add(duration)}
}
