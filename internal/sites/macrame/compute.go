package macrame

import (
	"errors"
	"fmt"
	"math"
)

// Rope-count resolution modes recorded in the breakdown.
const (
	MethodDirect   = "direct_ropes"
	MethodMinWidth = "min_width"
)

var errDivisionByZero = errors.New("division by zero")

// Breakdown records the intermediate values of a calculation.
type Breakdown struct {
	RopeConsumptionRatio float64 `json:"rope_consumption_ratio"`
	SampleDensity        float64 `json:"sample_density"`
	TargetKLength        float64 `json:"target_k_length"`
	InputMethod          string  `json:"input_method"`
}

// Output is the result of Compute. Lengths are in the input unit except TotalRopeConverted.
type Output struct {
	NumberOfRopes        int       `json:"number_of_ropes"`
	LengthPerRope        float64   `json:"length_per_rope"`
	TotalRopeLength      float64   `json:"total_rope_length"`
	TotalRopeConverted   float64   `json:"total_rope_converted"`
	ActualWidth          float64   `json:"actual_width"`
	AttachmentPoints     int       `json:"attachment_points"`
	UOM                  string    `json:"uom"`
	UOMConverted         string    `json:"uom_converted"`
	CalculationBreakdown Breakdown `json:"calculation_breakdown"`
}

// Compute derives rope quantities for the target piece from the measured sample.
// It is pure: identical input always yields identical output.
func Compute(in Input) (out Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = Output{}, &ComputationError{Err: fmt.Errorf("%v", r)}
		}
	}()

	s, t := in.Sample, in.Target
	if s.KLength == 0 || s.Ropes == 0 {
		return Output{}, &ComputationError{Err: errDivisionByZero}
	}

	// Attachment and fringe rope do not scale with knotting length.
	ratio := (s.RopeUsed - s.AttachedLength - s.FringeLength) / s.KLength
	density := s.Width / float64(s.Ropes)

	var ropes int
	method := MethodDirect
	if t.NumRopes != nil {
		ropes = *t.NumRopes
	} else {
		if density == 0 {
			return Output{}, &ComputationError{Err: errDivisionByZero}
		}
		multiplier := *t.RopeMultiplier
		units := math.Ceil((*t.MinWidth / density) / multiplier)
		count := units * multiplier
		if !(count <= MaxRopes) {
			return Output{}, &ComputationError{Err: fmt.Errorf("rope count %g exceeds %d", count, MaxRopes)}
		}
		ropes = int(count)
		method = MethodMinWidth
	}
	if ropes < 0 || ropes > MaxRopes {
		return Output{}, &ComputationError{Err: fmt.Errorf("rope count %d is out of range", ropes)}
	}
	width := float64(ropes) * density

	// The finished piece reuses the sample's attachment and fringe lengths.
	attached, fringe := s.AttachedLength, s.FringeLength

	targetK := t.TotalLength - fringe
	base := targetK * ratio
	// Fringe hangs from both ends of a folded cord.
	perCord := attached + base + 2*fringe
	final := perCord * (1 + in.Settings.SafetyMargin/100)
	total := final * float64(ropes)

	points := ropes
	if s.Folded {
		if points > math.MaxInt/2 {
			return Output{}, &ComputationError{Err: fmt.Errorf("attachment points for %d ropes overflow", ropes)}
		}
		points *= 2
	}

	unit, divisor := in.Settings.UOM.Converted()
	converted := total / divisor

	checks := []struct {
		name string
		v    float64
	}{{"ratio", ratio}, {"width", width}, {"rope length", final}, {"total", total}}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return Output{}, &ComputationError{Err: fmt.Errorf("%s is not finite", c.name)}
		}
	}

	return Output{
		NumberOfRopes:      ropes,
		LengthPerRope:      round(final, 1),
		TotalRopeLength:    round(total, 1),
		TotalRopeConverted: round(converted, 2),
		ActualWidth:        round(width, 1),
		AttachmentPoints:   points,
		UOM:                string(in.Settings.UOM),
		UOMConverted:       unit,
		CalculationBreakdown: Breakdown{
			RopeConsumptionRatio: round(ratio, 2),
			SampleDensity:        round(density, 2),
			TargetKLength:        round(targetK, 1),
			InputMethod:          method,
		},
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
