package ds4

// At-rest sentinels. Rest differs by control type and the two must not be
// unified: the hardware reports triggers over an asymmetric range whose
// minimum means "not pulled", while stick axes center on zero.
const (
	TriggerRest int16 = -32767
	StickRest   int16 = 0
)

// State is the live controller snapshot.
//
// The pipeline goroutine is the sole writer for the engine's lifetime;
// everyone else receives value copies, so the struct stays plain data with
// no locking of its own. JSON tags carry the canonical field names used by
// Map and by every external surface.
type State struct {
	X        bool `json:"x"`
	Triangle bool `json:"triangle"`
	Circle   bool `json:"circle"`
	Square   bool `json:"square"`

	L1 bool `json:"L1"`
	L3 bool `json:"L3"`
	R1 bool `json:"R1"`
	R3 bool `json:"R3"`

	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`

	Share       bool `json:"share"`
	Options     bool `json:"options"`
	PlayStation bool `json:"playstation"`

	// Analog triggers, TriggerRest when not pulled.
	L2 int16 `json:"L2"`
	R2 int16 `json:"R2"`

	// Stick axes, StickRest when centered.
	L3X int16 `json:"L3_x"`
	L3Y int16 `json:"L3_y"`
	R3X int16 `json:"R3_x"`
	R3Y int16 `json:"R3_y"`
}

// NewState returns a snapshot with every control at rest.
func NewState() State {
	return State{
		L2: TriggerRest,
		R2: TriggerRest,
	}
}

// Map returns the snapshot as a flat key/value structure for serialization
// to arbitrary external formats. Keys match the JSON tags.
func (s State) Map() map[string]any {
	return map[string]any{
		"x":        s.X,
		"triangle": s.Triangle,
		"circle":   s.Circle,
		"square":   s.Square,

		"L1": s.L1,
		"L3": s.L3,
		"R1": s.R1,
		"R3": s.R3,

		"up":    s.Up,
		"down":  s.Down,
		"left":  s.Left,
		"right": s.Right,

		"share":       s.Share,
		"options":     s.Options,
		"playstation": s.PlayStation,

		"L2": s.L2,
		"R2": s.R2,

		"L3_x": s.L3X,
		"L3_y": s.L3Y,
		"R3_x": s.R3X,
		"R3_y": s.R3Y,
	}
}

func (s *State) setButton(b Button, pressed bool) {
	switch b {
	case ButtonX:
		s.X = pressed
	case ButtonTriangle:
		s.Triangle = pressed
	case ButtonCircle:
		s.Circle = pressed
	case ButtonSquare:
		s.Square = pressed
	case ButtonL1:
		s.L1 = pressed
	case ButtonR1:
		s.R1 = pressed
	case ButtonShare:
		s.Share = pressed
	case ButtonOptions:
		s.Options = pressed
	case ButtonPlayStation:
		s.PlayStation = pressed
	case ButtonL3:
		s.L3 = pressed
	case ButtonR3:
		s.R3 = pressed
	}
}

func (s *State) setStickAxis(stick Stick, axis Axis, value int16) {
	switch {
	case stick == StickLeft && axis == AxisX:
		s.L3X = value
	case stick == StickLeft && axis == AxisY:
		s.L3Y = value
	case stick == StickRight && axis == AxisX:
		s.R3X = value
	case stick == StickRight && axis == AxisY:
		s.R3Y = value
	}
}

func (s *State) setTrigger(t Trigger, value int16) {
	if t == TriggerR2 {
		s.R2 = value
		return
	}
	s.L2 = value
}

func (s *State) setDPad(d DPadDirection, pressed bool) {
	switch d {
	case DPadUp:
		s.Up = pressed
	case DPadDown:
		s.Down = pressed
	case DPadLeft:
		s.Left = pressed
	case DPadRight:
		s.Right = pressed
	}
}
