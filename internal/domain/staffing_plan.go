package domain

type RecommendedAssignment struct {
	EmployeeID int64    `json:"employeeID"`
	FullName   string   `json:"fullName"`
	Category   Category `json:"category"`
	Position   string   `json:"position"`
	Score      float64  `json:"score"`
}

type StaffAvailability struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Total       int `json:"total"`
}

type StaffingPlan struct {
	OperationID            int64                   `json:"operationID"`
	MinimumStaff           int32                   `json:"minimumStaff"`
	RecommendedStaff       int32                   `json:"recommendedStaff"`
	MinimumStaffMet        bool                    `json:"minimumStaffMet"`
	Shortage               int32                   `json:"shortage"`
	RecommendedAssignments []RecommendedAssignment `json:"recommendedAssignments"`
	StaffAvailability      StaffAvailability       `json:"staffAvailability"`
	Suggestions            []string                `json:"suggestions"`
}
