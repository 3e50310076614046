package macrame

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func directInput(kLength, ropeUsed, width float64, ropes int, fringe float64, margin float64) Input {
	n := ropes * 2
	return Input{
		Sample: Sample{
			KLength: kLength, RopeUsed: ropeUsed, Width: width, Ropes: ropes,
			AttachedLength: 3, FringeLength: fringe, Folded: true,
		},
		Target:   Target{TotalLength: 120, NumRopes: &n},
		Settings: Settings{SafetyMargin: margin, UOM: UnitCM},
	}
}

func TestComputeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("compute is deterministic", prop.ForAll(
		func(kLength, ropeUsed, width float64, ropes int, fringe, margin float64) bool {
			in := directInput(kLength, ropeUsed, width, ropes, fringe, margin)
			a, errA := Compute(in)
			b, errB := Compute(in)
			return errA == nil && errB == nil && reflect.DeepEqual(a, b)
		},
		gen.Float64Range(1, 100),
		gen.Float64Range(10, 500),
		gen.Float64Range(0.5, 50),
		gen.IntRange(1, 40),
		gen.Float64Range(0, 20),
		gen.Float64Range(0, 50),
	))

	properties.Property("converted total round-trips within rounding tolerance", prop.ForAll(
		func(kLength, ropeUsed float64, ropes int, inches bool) bool {
			in := directInput(kLength, ropeUsed, 10, ropes, 5, 10)
			if inches {
				in.Settings.UOM = UnitIN
			}
			out, err := Compute(in)
			if err != nil {
				return false
			}
			_, divisor := in.Settings.UOM.Converted()
			back := out.TotalRopeConverted * divisor
			// converted is rounded to 0.01, total to 0.1
			return math.Abs(back-out.TotalRopeLength) <= 0.005*divisor+0.05+1e-9
		},
		gen.Float64Range(1, 100),
		gen.Float64Range(10, 500),
		gen.IntRange(1, 40),
		gen.Bool(),
	))

	properties.Property("zero ropes or zero k_length is a validation error", prop.ForAll(
		func(zeroRopes bool, other float64) bool {
			p := scenarioParams()
			s := p["sample"].(map[string]any)
			if zeroRopes {
				s["ropes"] = 0.0
				s["k_length"] = other
			} else {
				s["k_length"] = 0.0
				s["ropes"] = math.Ceil(other)
			}
			_, err := Parse(p)
			var ve *ValidationError
			return errors.As(err, &ve)
		},
		gen.Bool(),
		gen.Float64Range(1, 100),
	))

	properties.Property("direct and min-width modes agree on width", prop.ForAll(
		func(width float64, ropes int, minWidth float64, multiplier int) bool {
			mult := float64(multiplier)
			in := Input{
				Sample:   Sample{KLength: 10, RopeUsed: 50, Width: width, Ropes: ropes, FringeLength: 2},
				Target:   Target{TotalLength: 80, MinWidth: &minWidth, RopeMultiplier: &mult},
				Settings: Settings{SafetyMargin: 15, UOM: UnitCM},
			}
			byWidth, err := Compute(in)
			if err != nil {
				return false
			}

			n := byWidth.NumberOfRopes
			in.Target = Target{TotalLength: 80, NumRopes: &n}
			direct, err := Compute(in)
			if err != nil {
				return false
			}
			return direct.ActualWidth == byWidth.ActualWidth &&
				direct.TotalRopeLength == byWidth.TotalRopeLength &&
				direct.CalculationBreakdown.InputMethod == MethodDirect &&
				byWidth.CalculationBreakdown.InputMethod == MethodMinWidth
		},
		gen.Float64Range(0.5, 40),
		gen.IntRange(1, 20),
		gen.Float64Range(1, 300),
		gen.IntRange(1, 6),
	))

	properties.Property("min-width mode meets the minimum in multiples", prop.ForAll(
		func(width float64, ropes int, minWidth float64, multiplier int) bool {
			mult := float64(multiplier)
			in := Input{
				Sample:   Sample{KLength: 10, RopeUsed: 50, Width: width, Ropes: ropes},
				Target:   Target{TotalLength: 80, MinWidth: &minWidth, RopeMultiplier: &mult},
				Settings: Settings{UOM: UnitCM},
			}
			out, err := Compute(in)
			if err != nil {
				return false
			}
			density := width / float64(ropes)
			actual := float64(out.NumberOfRopes) * density
			return out.NumberOfRopes%multiplier == 0 && actual >= minWidth-1e-9
		},
		gen.Float64Range(0.5, 40),
		gen.IntRange(1, 20),
		gen.Float64Range(1, 300),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
