package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

// 调度参数全部由配置注入，缺失或非法时直接拒绝
type Parameters struct {
	StaffingRatio             float64        // 每名员工可服务的旅客数
	SkillMatchWeight          float64        // 技能与站点证书要求的匹配权重
	CertificationBonus        float64        // 每张证书的加分
	WorkloadPenalty           float64        // 每个进行中分配的扣分
	DefaultOperationDuration  time.Duration  // 作业没有预估时长时使用
	Location                  *time.Location // 计算自然日、自然周所用的时区
	RestrictSupervisorStation bool           // 主管只能看到自己站点的员工
}

func (p *Parameters) Validate() error {
	if p == nil {
		return domain.NewConfigurationError("faltan los parámetros de planificación")
	}
	if !finite(p.StaffingRatio) || p.StaffingRatio <= 0 {
		return domain.NewConfigurationError(fmt.Sprintf("ratio de personal inválido: %v", p.StaffingRatio))
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"skillMatchWeight", p.SkillMatchWeight},
		{"certificationBonus", p.CertificationBonus},
		{"workloadPenalty", p.WorkloadPenalty},
	}
	for _, w := range weights {
		if !finite(w.value) || w.value < 0 {
			return domain.NewConfigurationError(fmt.Sprintf("peso %s inválido: %v", w.name, w.value))
		}
	}
	if p.DefaultOperationDuration <= 0 {
		return domain.NewConfigurationError("la duración por defecto de la operación debe ser positiva")
	}
	if p.Location == nil {
		return domain.NewConfigurationError("falta la zona horaria de planificación")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// StaffingRequirement 是某个作业的人数需求
type StaffingRequirement struct {
	Minimum     int32 `json:"minimum"`
	Recommended int32 `json:"recommended"`
}

// AvailabilityStatus 说明员工为什么不可用
type AvailabilityStatus string

const (
	StatusAvailable  AvailabilityStatus = "available"
	StatusInactive   AvailabilityStatus = "inactive"
	StatusIneligible AvailabilityStatus = "ineligible"
	StatusConflict   AvailabilityStatus = "conflict"
)

type AvailabilityEntry struct {
	Employee  *domain.Employee   `json:"employee"`
	Available bool               `json:"available"`
	Status    AvailabilityStatus `json:"status"`
	Reasons   []string           `json:"reasons"`
}

type Availability struct {
	Available   []*domain.Employee  `json:"available"`
	Unavailable []AvailabilityEntry `json:"unavailable"`
}

// Entries 合并可用与不可用的员工，按员工 ID 升序排列
func (a *Availability) Entries() []AvailabilityEntry {
	entries := make([]AvailabilityEntry, 0, len(a.Available)+len(a.Unavailable))
	for _, e := range a.Available {
		entries = append(entries, AvailabilityEntry{Employee: e, Available: true, Status: StatusAvailable, Reasons: []string{}})
	}
	entries = append(entries, a.Unavailable...)
	sortEntriesByEmployeeID(entries)
	return entries
}

type Validation struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons"`
}
