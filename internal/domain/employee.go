package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleEmployee   Role = "employee"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
	RolePresident  Role = "president"
	RoleAdmin      Role = "admin"
)

var Roles = []Role{RoleEmployee, RoleSupervisor, RoleManager, RolePresident, RoleAdmin}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// Schedulable 表示该角色能否被分配到航班作业中
func (r Role) Schedulable() bool {
	switch r {
	case RoleEmployee, RoleSupervisor:
		return true
	case RoleManager, RolePresident, RoleAdmin:
		return false
	}
	return false
}

// CanQueryAnyOperation 员工只能查询自己的可用性
func (r Role) CanQueryAnyOperation() bool {
	switch r {
	case RoleSupervisor, RoleManager, RolePresident, RoleAdmin:
		return true
	case RoleEmployee:
		return false
	}
	return false
}

type Category string

const (
	CategoryBaggage     Category = "baggage"
	CategoryFuel        Category = "fuel"
	CategoryRamp        Category = "ramp"
	CategoryCargo       Category = "cargo"
	CategoryCleaning    Category = "cleaning"
	CategorySecurity    Category = "security"
	CategoryMaintenance Category = "maintenance"
	CategoryOperations  Category = "operations"
)

var Categories = []Category{
	CategoryBaggage,
	CategoryFuel,
	CategoryRamp,
	CategoryCargo,
	CategoryCleaning,
	CategorySecurity,
	CategoryMaintenance,
	CategoryOperations,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Label 是没有配置岗位时给推荐人员的默认岗位名
func (c Category) Label() string {
	switch c {
	case CategoryBaggage:
		return "Equipaje"
	case CategoryFuel:
		return "Combustible"
	case CategoryRamp:
		return "Rampa"
	case CategoryCargo:
		return "Carga"
	case CategoryCleaning:
		return "Limpieza"
	case CategorySecurity:
		return "Seguridad"
	case CategoryMaintenance:
		return "Mantenimiento"
	case CategoryOperations:
		return "Operaciones"
	}
	return string(c)
}

type Employee struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Category       Category  `json:"category"`
	Skills         []string  `json:"skills"`
	Certifications []string  `json:"certifications"`
	StationID      *int64    `json:"stationID"`
	IsActive       bool      `json:"isActive"`
	MaxDailyHours  *float64  `json:"maxDailyHours"`
	MaxWeeklyHours *float64  `json:"maxWeeklyHours"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

func (e *Employee) HasCertification(cert string) bool {
	return slices.Contains(e.Certifications, cert)
}

// MissingCertifications 返回员工缺少的证书，顺序与 required 一致
func (e *Employee) MissingCertifications(required []string) []string {
	missing := make([]string, 0)
	for _, cert := range required {
		if !e.HasCertification(cert) {
			missing = append(missing, cert)
		}
	}
	return missing
}

func (e *Employee) AtStation(stationID int64) bool {
	return e.StationID != nil && *e.StationID == stationID
}

// EmployeeFilter 为空的字段表示不过滤
type EmployeeFilter struct {
	StationID  *int64
	Category   *Category
	ActiveOnly bool
}
