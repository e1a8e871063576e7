package scheduler

import (
	"fmt"
	"sort"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

type OptimizeInput struct {
	Operation *domain.Operation
	Station   *domain.Station
	// StationPool 是本站点的在职员工，WiderPool 是人数不足时的回退候选池（可为空）
	StationPool []*domain.Employee
	WiderPool   []*domain.Employee
	// Assignments 以员工 ID 分组的已有分配
	Assignments map[int64][]*domain.Assignment
	// OperationAssignments 是该作业已有的分配，用于计算未填补的岗位
	OperationAssignments []*domain.Assignment
}

type scoredCandidate struct {
	employee *domain.Employee
	score    float64
}

// Optimize 生成某个作业的推荐排班方案，只是建议，不会创建任何分配
func Optimize(params *Parameters, in OptimizeInput) (*domain.StaffingPlan, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// 1. 计算人数需求
	req, err := Requirement(in.Operation, in.Station, params.StaffingRatio)
	if err != nil {
		return nil, err
	}

	// 2. 本站点人数不足时扩大候选池
	pool := in.StationPool
	widened := false
	if len(in.StationPool) < int(req.Minimum) && len(in.WiderPool) > 0 {
		pool = mergePools(in.StationPool, in.WiderPool)
		widened = len(pool) > len(in.StationPool)
	}

	availability, err := Resolve(in.Operation.Window(params.DefaultOperationDuration), pool, in.Assignments, ResolveOptions{Station: in.Station})
	if err != nil {
		return nil, err
	}

	// 3. 打分
	candidates := make([]scoredCandidate, 0, len(availability.Available))
	for _, e := range availability.Available {
		candidates = append(candidates, scoredCandidate{
			employee: e,
			score:    score(params, e, in.Station, in.Assignments[e.ID]),
		})
	}

	// 4. 分数降序，分数相同按员工 ID 升序，保证输出确定
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].employee.ID < candidates[j].employee.ID
	})

	// 5. 取前 recommended 名并轮流分配岗位
	take := min(int(req.Recommended), len(candidates))
	positions := unfilledFunctions(in.Station, in.OperationAssignments)
	recommended := make([]domain.RecommendedAssignment, 0, take)
	for i, c := range candidates[:take] {
		position := c.employee.Category.Label()
		if len(positions) > 0 {
			position = positions[i%len(positions)]
		}
		recommended = append(recommended, domain.RecommendedAssignment{
			EmployeeID: c.employee.ID,
			FullName:   c.employee.FullName,
			Category:   c.employee.Category,
			Position:   position,
			Score:      c.score,
		})
	}

	// 6. 缺员诊断
	available := int32(len(availability.Available))
	shortage := max(req.Minimum-available, 0)

	plan := &domain.StaffingPlan{
		OperationID:            in.Operation.ID,
		MinimumStaff:           req.Minimum,
		RecommendedStaff:       req.Recommended,
		MinimumStaffMet:        available >= req.Minimum,
		Shortage:               shortage,
		RecommendedAssignments: recommended,
		StaffAvailability: domain.StaffAvailability{
			Available:   len(availability.Available),
			Unavailable: len(availability.Unavailable),
			Total:       len(pool),
		},
		Suggestions: suggestions(in.Station, req, available, shortage, widened),
	}

	return plan, nil
}

// score = skillMatchWeight·|技能∩站点证书| + certificationBonus·证书数 − workloadPenalty·进行中分配数
func score(params *Parameters, e *domain.Employee, station *domain.Station, assignments []*domain.Assignment) float64 {
	matched := intersectionSize(e.Skills, station.RequiredCertifications)
	return params.SkillMatchWeight*float64(matched) +
		params.CertificationBonus*float64(len(e.Certifications)) -
		params.WorkloadPenalty*float64(activeAssignmentCount(assignments))
}

// unfilledFunctions 从站点岗位中扣除作业已有分配占用的岗位；全部占满时按全部岗位轮流
func unfilledFunctions(station *domain.Station, existing []*domain.Assignment) []string {
	filled := make(map[string]int)
	for _, a := range existing {
		if a.Status.Active() {
			filled[a.Function]++
		}
	}

	unfilled := make([]string, 0, len(station.RequiredFunctions))
	for _, fn := range station.RequiredFunctions {
		if filled[fn] > 0 {
			filled[fn]--
			continue
		}
		unfilled = append(unfilled, fn)
	}

	if len(unfilled) == 0 {
		return station.RequiredFunctions
	}
	return unfilled
}

func suggestions(station *domain.Station, req StaffingRequirement, available, shortage int32, widened bool) []string {
	out := make([]string, 0)
	if widened {
		out = append(out, fmt.Sprintf("Se amplió la búsqueda a otras estaciones por falta de personal en %s", station.Code))
	}
	if shortage > 0 {
		out = append(out, fmt.Sprintf("Faltan %d empleados certificados para esta estación", shortage))
	}
	if shortage == 0 && available < req.Recommended {
		out = append(out, fmt.Sprintf("Se cubre el mínimo, pero solo hay %d de %d empleados recomendados", available, req.Recommended))
	}
	if available > req.Recommended {
		out = append(out, fmt.Sprintf("Hay %d empleados disponibles adicionales como reserva", available-req.Recommended))
	}
	return out
}
