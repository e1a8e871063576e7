package scheduler

import (
	"fmt"
	"math"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

// Requirement 根据站点人数上下限和旅客人数计算作业所需人数
//
//	minimum     = station.MinimumStaff
//	recommended = min(max(minimum, ceil(passengers / ratio)), station.MaximumStaff)
func Requirement(op *domain.Operation, station *domain.Station, ratio float64) (StaffingRequirement, error) {
	if station == nil {
		return StaffingRequirement{}, domain.NewMissingStationError(op.ID)
	}
	if !finite(ratio) || ratio <= 0 {
		return StaffingRequirement{}, domain.NewConfigurationError(fmt.Sprintf("ratio de personal inválido: %v", ratio))
	}
	if station.MinimumStaff < 0 || station.MinimumStaff > station.MaximumStaff {
		return StaffingRequirement{}, domain.NewConfigurationError(
			fmt.Sprintf("la estación %s tiene límites de personal inválidos (%d-%d)", station.Code, station.MinimumStaff, station.MaximumStaff),
		)
	}

	passengers := max(op.PassengerCount, 0)
	byPassengers := math.Ceil(float64(passengers) / ratio)

	recommended := station.MaximumStaff
	if byPassengers < float64(station.MaximumStaff) {
		recommended = max(station.MinimumStaff, int32(byPassengers))
	}

	return StaffingRequirement{
		Minimum:     station.MinimumStaff,
		Recommended: recommended,
	}, nil
}
