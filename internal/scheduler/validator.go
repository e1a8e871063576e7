package scheduler

import (
	"fmt"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

type ValidationInput struct {
	Employee *domain.Employee
	Station  *domain.Station // 作业没有站点时为空，此时跳过证书检查
	Window   domain.TimeWindow
	Existing []*domain.Assignment // 该员工已有的分配
	Location *time.Location
}

// Validate 检查一条拟定的分配，所有失败原因都会被收集而不是遇到第一个就返回。
// 它不做任何写入，调用方必须在可串行化的事务中重新检查后才能提交。
func Validate(in ValidationInput) Validation {
	reasons := make([]string, 0)

	windowOK := in.Window.Valid()
	if !windowOK {
		reasons = append(reasons, reasonInvalidWindow)
	}

	if !in.Employee.IsActive {
		reasons = append(reasons, reasonInactive)
	}
	reasons = append(reasons, eligibilityReasons(in.Employee, in.Station)...)

	if windowOK {
		for _, conflict := range conflictingAssignments(in.Window, in.Existing) {
			reasons = append(reasons, reasonScheduleConflict(conflict.ID))
		}
		reasons = append(reasons, workloadReasons(in)...)
	}

	return Validation{
		Valid:   len(reasons) == 0,
		Reasons: reasons,
	}
}

// workloadReasons 对窗口覆盖的每个自然日、自然周累加工时，超过上限时各给出一条原因
func workloadReasons(in ValidationInput) []string {
	reasons := make([]string, 0, 2)
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	if limit := in.Employee.MaxDailyHours; limit != nil {
		for _, day := range spannedPeriods(in.Window, loc, startOfDay, 1) {
			if hours := assignedHours(day, in.Window, in.Existing); hours > *limit {
				reasons = append(reasons, fmt.Sprintf("Excede horas máximas diarias (%.1f h de %.1f h el %s)", hours, *limit, day.Start.Format("2006-01-02")))
				break
			}
		}
	}

	if limit := in.Employee.MaxWeeklyHours; limit != nil {
		for _, week := range spannedPeriods(in.Window, loc, startOfWeek, 7) {
			if hours := assignedHours(week, in.Window, in.Existing); hours > *limit {
				reasons = append(reasons, fmt.Sprintf("Excede horas máximas semanales (%.1f h de %.1f h en la semana del %s)", hours, *limit, week.Start.Format("2006-01-02")))
				break
			}
		}
	}

	return reasons
}

// assignedHours 计算周期内已有工时加上新窗口的工时
func assignedHours(period, window domain.TimeWindow, existing []*domain.Assignment) float64 {
	total := period.Intersect(window)
	for _, a := range existing {
		if !a.Status.CountsTowardHours() {
			continue
		}
		total += period.Intersect(a.Window())
	}
	return total.Hours()
}

// spannedPeriods 返回与窗口相交的所有自然日（或自然周）
func spannedPeriods(window domain.TimeWindow, loc *time.Location, start func(time.Time, *time.Location) time.Time, days int) []domain.TimeWindow {
	periods := make([]domain.TimeWindow, 0, 1)
	for cursor := start(window.Start, loc); cursor.Before(window.End); cursor = cursor.AddDate(0, 0, days) {
		periods = append(periods, domain.TimeWindow{Start: cursor, End: cursor.AddDate(0, 0, days)})
	}
	return periods
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// startOfWeek 以周一作为一周的开始
func startOfWeek(t time.Time, loc *time.Location) time.Time {
	day := startOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
