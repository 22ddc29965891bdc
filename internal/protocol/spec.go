// Package protocol defines the simulation request data model
// and its validation rules.
package protocol

// StimulusKind enumerates the supported stimulus protocols.
// The set is closed: the validator checks each kind's numeric
// fields exhaustively and rejects anything else.
type StimulusKind string

const (
	StimulusIClamp StimulusKind = "IClamp"
	StimulusVClamp StimulusKind = "VClamp"
)

// Stimulus is the external perturbation applied during a
// simulation. Times are milliseconds; Amplitude is nanoamps
// for current clamp and millivolts for voltage clamp.
type Stimulus struct {
	Kind      StimulusKind `json:"type"`
	Delay     float64      `json:"delay"`
	Duration  float64      `json:"duration"`
	Amplitude float64      `json:"amplitude"`
	// SeriesResistance is the voltage clamp access resistance
	// in megaohms. Ignored for current clamp.
	SeriesResistance float64 `json:"rs,omitempty"`
}

// Recording identifies one probe point. A request holds an
// ordered sequence of these; result series are indexed by
// position.
type Recording struct {
	Section  string `json:"section"`
	Variable string `json:"variable"`
}

// Conditions are the global simulation parameters.
type Conditions struct {
	Duration float64 `json:"duration"`
	Dt       float64 `json:"dt"`
	VInit    float64 `json:"v_init"`
	Celsius  float64 `json:"celsius"`
}

// Request is a submission to run one simulation against a
// registered model.
type Request struct {
	ModelID    string      `json:"model_id"`
	Stimulus   Stimulus    `json:"stimulus"`
	Recordings []Recording `json:"recordings"`
	Conditions Conditions  `json:"conditions"`
}
