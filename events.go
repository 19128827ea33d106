package ds4

// ============================================================================
// Semantic events
// ============================================================================
// A Mapping turns each RawEvent into exactly one of the small value types
// below (or nil for records the device is not known to produce). The reducer
// switches over them exhaustively; adding a variant means extending both the
// mapping table and the reducer, never sprinkling predicates through the
// state logic.
// ============================================================================

// SemanticEvent is the decoded meaning of one record.
type SemanticEvent interface {
	semanticEvent()
}

// Button identifies a digital control on the pad. String returns the short
// label used in the event history and in logs.
type Button uint8

const (
	ButtonX Button = iota
	ButtonTriangle
	ButtonCircle
	ButtonSquare
	ButtonL1
	ButtonR1
	ButtonShare
	ButtonOptions
	ButtonPlayStation
	ButtonL3
	ButtonR3
)

func (b Button) String() string {
	switch b {
	case ButtonX:
		return "x"
	case ButtonTriangle:
		return "triangle"
	case ButtonCircle:
		return "circle"
	case ButtonSquare:
		return "square"
	case ButtonL1:
		return "L1"
	case ButtonR1:
		return "R1"
	case ButtonShare:
		return "share"
	case ButtonOptions:
		return "options"
	case ButtonPlayStation:
		return "ps"
	case ButtonL3:
		return "L3"
	case ButtonR3:
		return "R3"
	default:
		return "button(unknown)"
	}
}

// Stick identifies an analog stick.
type Stick uint8

const (
	StickLeft Stick = iota
	StickRight
)

func (s Stick) String() string {
	if s == StickRight {
		return "right_joystick"
	}
	return "left_joystick"
}

// Axis selects a stick axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Trigger identifies an analog trigger.
type Trigger uint8

const (
	TriggerL2 Trigger = iota
	TriggerR2
)

func (t Trigger) String() string {
	if t == TriggerR2 {
		return "R2"
	}
	return "L2"
}

// DPadDirection identifies one directional-pad direction.
type DPadDirection uint8

const (
	DPadUp DPadDirection = iota
	DPadDown
	DPadLeft
	DPadRight
)

func (d DPadDirection) String() string {
	switch d {
	case DPadUp:
		return "up"
	case DPadDown:
		return "down"
	case DPadLeft:
		return "left"
	default:
		return "right"
	}
}

// DPadAxis selects a directional-pad rocker. The wire protocol reports a
// rocker returning to center without saying which side was held, so release
// semantics are per-axis, not per-direction.
type DPadAxis uint8

const (
	DPadHorizontal DPadAxis = iota // left + right
	DPadVertical                   // up + down
)

// ButtonPressed reports a digital button edge down.
type ButtonPressed struct{ Button Button }

// ButtonReleased reports a digital button edge up.
type ButtonReleased struct{ Button Button }

// StickMoved carries a directional sample for one stick axis.
type StickMoved struct {
	Stick Stick
	Axis  Axis
	Value int16
}

// StickAtRest reports one stick axis back at neutral. The sibling axis is
// unaffected.
type StickAtRest struct {
	Stick Stick
	Axis  Axis
}

// TriggerPulled carries an analog trigger sample anywhere above the rest
// stop.
type TriggerPulled struct {
	Trigger Trigger
	Value   int16
}

// TriggerReleased reports a trigger back at its rest stop.
type TriggerReleased struct{ Trigger Trigger }

// DPadPressed reports a single directional-pad direction engaging.
type DPadPressed struct{ Direction DPadDirection }

// DPadCentered reports a directional-pad rocker returning to center; both
// directions of that axis clear together.
type DPadCentered struct{ Axis DPadAxis }

func (ButtonPressed) semanticEvent()   {}
func (ButtonReleased) semanticEvent()  {}
func (StickMoved) semanticEvent()      {}
func (StickAtRest) semanticEvent()     {}
func (TriggerPulled) semanticEvent()   {}
func (TriggerReleased) semanticEvent() {}
func (DPadPressed) semanticEvent()     {}
func (DPadCentered) semanticEvent()    {}
