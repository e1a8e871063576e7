package domain

type Station struct {
	ID                     int64    `json:"id"`
	Code                   string   `json:"code"`
	Name                   string   `json:"name"`
	MinimumStaff           int32    `json:"minimumStaff"`
	MaximumStaff           int32    `json:"maximumStaff"`
	RequiredCertifications []string `json:"requiredCertifications"`
	RequiredFunctions      []string `json:"requiredFunctions"` // 岗位按顺序轮流分配
	EnforceCertifications  bool     `json:"enforceCertifications"`
	IsActive               bool     `json:"isActive"`
	Version                int32    `json:"-"`
}
