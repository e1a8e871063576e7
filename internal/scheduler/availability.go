package scheduler

import (
	"fmt"
	"strings"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

const (
	reasonInactive      = "Empleado inactivo"
	reasonInvalidWindow = "Ventana de tiempo inválida: el inicio debe ser anterior al fin"
)

func reasonRoleNotSchedulable(role domain.Role) string {
	return fmt.Sprintf("El rol %s no puede asignarse a operaciones", role)
}

func reasonMissingCertifications(missing []string) string {
	return fmt.Sprintf("Faltan certificaciones requeridas: %s", strings.Join(missing, ", "))
}

func reasonScheduleConflict(assignmentID int64) string {
	return fmt.Sprintf("Conflicto de horario con asignación #%d", assignmentID)
}

type ResolveOptions struct {
	// Station 不为空且要求证书时，缺少证书的员工视为不可用
	Station *domain.Station
}

// Resolve 将候选池划分为可用和不可用两部分，结果只是建议，提交前仍需校验
func Resolve(window domain.TimeWindow, pool []*domain.Employee, assignments map[int64][]*domain.Assignment, opts ResolveOptions) (*Availability, error) {
	if !window.Valid() {
		return nil, domain.NewValidationError([]string{reasonInvalidWindow})
	}

	result := &Availability{
		Available:   make([]*domain.Employee, 0),
		Unavailable: make([]AvailabilityEntry, 0),
	}

	for _, employee := range pool {
		if !employee.IsActive {
			result.Unavailable = append(result.Unavailable, AvailabilityEntry{
				Employee: employee,
				Status:   StatusInactive,
				Reasons:  []string{reasonInactive},
			})
			continue
		}

		status := StatusAvailable
		reasons := eligibilityReasons(employee, opts.Station)
		if len(reasons) > 0 {
			status = StatusIneligible
		}

		for _, conflict := range conflictingAssignments(window, assignments[employee.ID]) {
			if status == StatusAvailable {
				status = StatusConflict
			}
			reasons = append(reasons, reasonScheduleConflict(conflict.ID))
		}

		if status == StatusAvailable {
			result.Available = append(result.Available, employee)
			continue
		}
		result.Unavailable = append(result.Unavailable, AvailabilityEntry{
			Employee: employee,
			Status:   status,
			Reasons:  reasons,
		})
	}

	return result, nil
}

// eligibilityReasons 检查角色和站点证书要求，不检查在职状态
func eligibilityReasons(employee *domain.Employee, station *domain.Station) []string {
	reasons := make([]string, 0)
	if !employee.Role.Schedulable() {
		reasons = append(reasons, reasonRoleNotSchedulable(employee.Role))
	}
	if station != nil && station.EnforceCertifications {
		if missing := employee.MissingCertifications(station.RequiredCertifications); len(missing) > 0 {
			reasons = append(reasons, reasonMissingCertifications(missing))
		}
	}
	return reasons
}
