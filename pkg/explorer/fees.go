package explorer

import "fmt"

// Fee speeds, each one selecting a rate of the FeeRates schedule.
const (
	FeeSpeedFastest  = "fastest"
	FeeSpeedHalfHour = "halfhour"
	FeeSpeedHour     = "hour"
	FeeSpeedEconomy  = "economy"
	FeeSpeedMinimum  = "minimum"
)

// FeeRates is the schedule of recommended fee rates, all in sat/vB.
type FeeRates struct {
	FastestFee  float64 `json:"fastestFee"`
	HalfHourFee float64 `json:"halfHourFee"`
	HourFee     float64 `json:"hourFee"`
	EconomyFee  float64 `json:"economyFee"`
	MinimumFee  float64 `json:"minimumFee"`
}

// ForSpeed returns the rate of the schedule for the given speed. An empty
// speed selects the fastest rate.
func (f FeeRates) ForSpeed(speed string) (float64, error) {
	switch speed {
	case "", FeeSpeedFastest:
		return f.FastestFee, nil
	case FeeSpeedHalfHour:
		return f.HalfHourFee, nil
	case FeeSpeedHour:
		return f.HourFee, nil
	case FeeSpeedEconomy:
		return f.EconomyFee, nil
	case FeeSpeedMinimum:
		return f.MinimumFee, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownFeeSpeed, speed)
	}
}
