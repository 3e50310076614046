package macrame

import (
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"

	"microsites/internal/tool"
)

// Unit is the unit of measure the caller's lengths are expressed in.
type Unit string

const (
	UnitCM Unit = "cm"
	UnitIN Unit = "in"
)

// MaxRopes bounds every rope count so derived counts stay representable.
const MaxRopes = math.MaxInt32

// Converted returns the larger unit totals are reported in and the divisor to reach it.
func (u Unit) Converted() (string, float64) {
	if u == UnitIN {
		return "ft", 12
	}
	return "m", 100
}

// Sample is the measured reference swatch.
type Sample struct {
	KLength        float64
	RopeUsed       float64
	Width          float64
	Ropes          int
	AttachedLength float64
	FringeLength   float64
	Folded         bool
}

// Target describes the finished piece. NumRopes nil selects minimum-width mode.
type Target struct {
	TotalLength    float64
	NumRopes       *int
	MinWidth       *float64
	RopeMultiplier *float64
}

// Settings holds the safety margin (percent) and unit of measure.
type Settings struct {
	SafetyMargin float64
	UOM          Unit
}

// Input is the canonical, validated calculation input.
type Input struct {
	Sample   Sample
	Target   Target
	Settings Settings
}

var sections = []string{"sample", "target", "settings"}

// normalize folds nested sections and flattened "section.key" entries into one nested form.
// Dotted keys are applied last and win over nested values for the same field.
func normalize(params map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(sections))
	for _, sec := range sections {
		out[sec] = map[string]any{}
		for k, v := range asMap(params[sec]) {
			out[sec][k] = v
		}
	}
	for k, v := range params {
		sec, key, ok := strings.Cut(k, ".")
		if !ok || key == "" {
			continue
		}
		if m, known := out[sec]; known {
			m[key] = v
		}
	}
	return out
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case tool.Params:
		return m
	}
	return nil
}

// Parse normalizes params and validates them into an Input.
func Parse(params map[string]any) (Input, error) {
	n := normalize(params)
	s := fields{section: "sample", values: n["sample"]}
	t := fields{section: "target", values: n["target"]}
	st := fields{section: "settings", values: n["settings"]}

	var in Input
	var err error

	if in.Sample.KLength, err = s.positive("k_length"); err != nil {
		return Input{}, err
	}
	if in.Sample.RopeUsed, err = s.nonNegative("rope_used", true); err != nil {
		return Input{}, err
	}
	if in.Sample.Width, err = s.nonNegative("width", true); err != nil {
		return Input{}, err
	}
	ropes, err := s.positive("ropes")
	if err != nil {
		return Input{}, err
	}
	if in.Sample.Ropes, err = s.whole("ropes", ropes); err != nil {
		return Input{}, err
	}
	if in.Sample.AttachedLength, err = s.nonNegative("attached_length", false); err != nil {
		return Input{}, err
	}
	if in.Sample.FringeLength, err = s.nonNegative("fringe_length", false); err != nil {
		return Input{}, err
	}
	if in.Sample.Folded, err = s.boolean("folded"); err != nil {
		return Input{}, err
	}
	if in.Sample.RopeUsed < in.Sample.AttachedLength+in.Sample.FringeLength {
		return Input{}, invalid("sample.rope_used", "must be at least sample.attached_length + sample.fringe_length")
	}

	if in.Target.TotalLength, err = t.positive("total_length"); err != nil {
		return Input{}, err
	}
	if in.Target.TotalLength <= in.Sample.FringeLength {
		return Input{}, invalid("target.total_length", "must be greater than sample.fringe_length")
	}

	numRopes, present, err := t.number("num_ropes")
	if err != nil {
		return Input{}, err
	}
	if present && numRopes != 0 {
		if numRopes < 0 {
			return Input{}, invalid("target.num_ropes", "must be greater than 0")
		}
		count, err := t.whole("num_ropes", numRopes)
		if err != nil {
			return Input{}, err
		}
		in.Target.NumRopes = &count
	} else {
		minWidth, err := t.positive("min_width")
		if err != nil {
			return Input{}, requiredForMinWidth(err)
		}
		multiplier, err := t.positive("rope_multiplier")
		if err != nil {
			return Input{}, requiredForMinWidth(err)
		}
		in.Target.MinWidth = &minWidth
		in.Target.RopeMultiplier = &multiplier
	}

	if in.Settings.SafetyMargin, err = st.nonNegative("safety_margin", false); err != nil {
		return Input{}, err
	}
	uom, err := st.str("uom")
	if err != nil {
		return Input{}, err
	}
	switch Unit(strings.ToLower(uom)) {
	case UnitCM:
		in.Settings.UOM = UnitCM
	case UnitIN:
		in.Settings.UOM = UnitIN
	default:
		return Input{}, invalid("settings.uom", "must be one of cm, in (got %q)", uom)
	}

	return in, nil
}

func requiredForMinWidth(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message == "is required" {
		ve.Message = "is required when target.num_ropes is not given"
	}
	return err
}

// fields reads typed values out of one normalized section.
type fields struct {
	section string
	values  map[string]any
}

func (f fields) name(key string) string { return f.section + "." + key }

// number reports whether key holds a value and coerces it to a finite float.
// Empty strings count as absent since form clients send them for blank inputs.
func (f fields) number(key string) (float64, bool, error) {
	raw, ok := f.values[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case bool:
		return 0, true, invalid(f.name(key), "must be a number")
	case string:
		raw = strings.TrimSpace(v)
		if raw == "" {
			return 0, false, nil
		}
	}
	x, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, true, invalid(f.name(key), "must be a number")
	}
	return x, true, nil
}

func (f fields) positive(key string) (float64, error) {
	x, present, err := f.number(key)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, invalid(f.name(key), "is required")
	}
	if x <= 0 {
		return 0, invalid(f.name(key), "must be greater than 0")
	}
	return x, nil
}

func (f fields) nonNegative(key string, required bool) (float64, error) {
	x, present, err := f.number(key)
	if err != nil {
		return 0, err
	}
	if !present {
		if required {
			return 0, invalid(f.name(key), "is required")
		}
		return 0, nil
	}
	if x < 0 {
		return 0, invalid(f.name(key), "must not be negative")
	}
	return x, nil
}

func (f fields) whole(key string, x float64) (int, error) {
	if x != math.Trunc(x) {
		return 0, invalid(f.name(key), "must be a whole number")
	}
	if x > MaxRopes {
		return 0, invalid(f.name(key), "must be at most %d", MaxRopes)
	}
	return int(x), nil
}

func (f fields) boolean(key string) (bool, error) {
	raw, ok := f.values[key]
	if !ok || raw == nil {
		return false, nil
	}
	if s, isStr := raw.(string); isStr {
		raw = strings.TrimSpace(s)
		if raw == "" {
			return false, nil
		}
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false, invalid(f.name(key), "must be true or false")
	}
	return b, nil
}

func (f fields) str(key string) (string, error) {
	raw, ok := f.values[key]
	if !ok || raw == nil {
		return "", invalid(f.name(key), "is required")
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", invalid(f.name(key), "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(f.name(key), "is required")
	}
	return s, nil
}
