package macrame

// InputField describes one accepted input for client-side form generation.
type InputField struct {
	Section  string   `json:"section"`
	Key      string   `json:"key"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Hint     string   `json:"hint"`
	Enum     []string `json:"enum,omitempty"`
}

// OutputField describes one value in a compute result.
type OutputField struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Hint string `json:"hint"`
}

// Schema lists every input Parse reads and every output Compute produces.
type Schema struct {
	Inputs  []InputField  `json:"inputs"`
	Outputs []OutputField `json:"outputs"`
}

// Describe returns the static schema. Callers get a fresh copy.
func Describe() Schema {
	return Schema{
		Inputs: []InputField{
			{Section: "sample", Key: "k_length", Type: "number", Required: true, Hint: "Knotted length of the sample"},
			{Section: "sample", Key: "rope_used", Type: "number", Required: true, Hint: "Rope length used by one cord of the sample"},
			{Section: "sample", Key: "width", Type: "number", Required: true, Hint: "Width of the sample"},
			{Section: "sample", Key: "ropes", Type: "integer", Required: true, Hint: "Number of cords in the sample"},
			{Section: "sample", Key: "attached_length", Type: "number", Required: false, Hint: "Rope used to mount one cord (default 0)"},
			{Section: "sample", Key: "fringe_length", Type: "number", Required: false, Hint: "Unknotted fringe left at one end (default 0)"},
			{Section: "sample", Key: "folded", Type: "boolean", Required: false, Hint: "Cords are folded over the mount, giving two ends each"},
			{Section: "target", Key: "total_length", Type: "number", Required: true, Hint: "Finished length including fringe"},
			{Section: "target", Key: "num_ropes", Type: "integer", Required: false, Hint: "Explicit cord count; leave empty to derive it from min_width"},
			{Section: "target", Key: "min_width", Type: "number", Required: false, Hint: "Minimum finished width; required when num_ropes is empty"},
			{Section: "target", Key: "rope_multiplier", Type: "number", Required: false, Hint: "Cord count is rounded up to a multiple of this; required when num_ropes is empty"},
			{Section: "settings", Key: "safety_margin", Type: "number", Required: false, Hint: "Extra rope in percent (default 0)"},
			{Section: "settings", Key: "uom", Type: "string", Required: true, Hint: "Unit of all lengths", Enum: []string{string(UnitCM), string(UnitIN)}},
		},
		Outputs: []OutputField{
			{Path: "number_of_ropes", Type: "integer", Hint: "Cords to cut"},
			{Path: "length_per_rope", Type: "number", Hint: "Length of each cord, safety margin included"},
			{Path: "total_rope_length", Type: "number", Hint: "Total rope in the input unit"},
			{Path: "total_rope_converted", Type: "number", Hint: "Total rope in m (cm input) or ft (in input)"},
			{Path: "actual_width", Type: "number", Hint: "Width the chosen cord count produces"},
			{Path: "attachment_points", Type: "integer", Hint: "Cord ends at the mount"},
			{Path: "uom", Type: "string", Hint: "Input unit"},
			{Path: "uom_converted", Type: "string", Hint: "Unit of total_rope_converted"},
			{Path: "calculation_breakdown.rope_consumption_ratio", Type: "number", Hint: "Rope used per unit of knotted length"},
			{Path: "calculation_breakdown.sample_density", Type: "number", Hint: "Width contributed by one cord"},
			{Path: "calculation_breakdown.target_k_length", Type: "number", Hint: "Knotted length of the finished piece"},
			{Path: "calculation_breakdown.input_method", Type: "string", Hint: "direct_ropes or min_width"},
		},
	}
}
