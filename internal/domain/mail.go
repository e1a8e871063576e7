package domain

import "time"

const MailTypeAssignmentCreated = "assignment_created"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AssignmentCreatedMailData struct {
	FullName     string    `json:"fullName"`
	FlightNumber string    `json:"flightNumber"`
	StationCode  string    `json:"stationCode"`
	Function     string    `json:"function"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}
