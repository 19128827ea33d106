package ds4

// Mapping classifies decoded records for one physical device / driver
// backend pairing. Classify returns nil for records the device is not known
// to produce; the engine treats those as no-ops.
//
// Mappings must be pure: all stateful edge logic belongs to the reducer.
// This is the seam for supporting other controllers without touching the
// state machine.
type Mapping interface {
	Classify(ev RawEvent) SemanticEvent
}

// DualShock 4 control numbers as exposed by the kernel joystick interface.
const (
	ds4ButtonX        = 0
	ds4ButtonCircle   = 1
	ds4ButtonTriangle = 2
	ds4ButtonSquare   = 3
	ds4ButtonL1       = 4
	ds4ButtonR1       = 5
	ds4ButtonL2       = 6 // digital stop behind the analog axis; unmapped
	ds4ButtonR2       = 7 // digital stop behind the analog axis; unmapped
	ds4ButtonShare    = 8
	ds4ButtonOptions  = 9
	ds4ButtonPS       = 10
	ds4ButtonL3       = 11
	ds4ButtonR3       = 12

	ds4AxisL3X   = 0
	ds4AxisL3Y   = 1
	ds4AxisL2    = 2
	ds4AxisR3X   = 3
	ds4AxisR3Y   = 4
	ds4AxisR2    = 5
	ds4AxisDPadX = 6
	ds4AxisDPadY = 7
)

// DS4Mapping is the default classification table for a DualShock 4 on the
// kernel joystick interface.
//
// Classification order gives each category distinct precedence: right stick,
// left stick, digital buttons, triggers, directional pad. The DS4 table is
// non-overlapping by construction, so the ordering only matters for derived
// tables that alias control numbers; those fail toward the earlier category
// instead of double-applying.
//
// Synthetic initial-state records (RawEvent.Init) classify exactly like
// live ones, which is what lets the driver's opening burst seed the snapshot
// with the device's true state.
type DS4Mapping struct{}

// Classify implements Mapping.
func (m DS4Mapping) Classify(ev RawEvent) SemanticEvent {
	if sev := m.classifyStick(ev, StickRight); sev != nil {
		return sev
	}
	if sev := m.classifyStick(ev, StickLeft); sev != nil {
		return sev
	}
	if sev := m.classifyButton(ev); sev != nil {
		return sev
	}
	if sev := m.classifyTrigger(ev); sev != nil {
		return sev
	}
	return m.classifyDPad(ev)
}

func (DS4Mapping) classifyStick(ev RawEvent, stick Stick) SemanticEvent {
	if ev.Kind != KindAxis {
		return nil
	}

	var axis Axis
	switch {
	case stick == StickRight && ev.ID == ds4AxisR3X:
		axis = AxisX
	case stick == StickRight && ev.ID == ds4AxisR3Y:
		axis = AxisY
	case stick == StickLeft && ev.ID == ds4AxisL3X:
		axis = AxisX
	case stick == StickLeft && ev.ID == ds4AxisL3Y:
		axis = AxisY
	default:
		return nil
	}

	// At-rest before directional, per axis.
	if ev.Value == StickRest {
		return StickAtRest{Stick: stick, Axis: axis}
	}
	return StickMoved{Stick: stick, Axis: axis, Value: ev.Value}
}

func (DS4Mapping) classifyButton(ev RawEvent) SemanticEvent {
	if ev.Kind != KindButton {
		return nil
	}

	var b Button
	switch ev.ID {
	case ds4ButtonX:
		b = ButtonX
	case ds4ButtonCircle:
		b = ButtonCircle
	case ds4ButtonTriangle:
		b = ButtonTriangle
	case ds4ButtonSquare:
		b = ButtonSquare
	case ds4ButtonL1:
		b = ButtonL1
	case ds4ButtonR1:
		b = ButtonR1
	case ds4ButtonShare:
		b = ButtonShare
	case ds4ButtonOptions:
		b = ButtonOptions
	case ds4ButtonPS:
		b = ButtonPlayStation
	case ds4ButtonL3:
		b = ButtonL3
	case ds4ButtonR3:
		b = ButtonR3
	default:
		// Includes the digital L2/R2 stops: trigger state rides on the
		// analog axes alone.
		return nil
	}

	switch ev.Value {
	case 1:
		return ButtonPressed{Button: b}
	case 0:
		return ButtonReleased{Button: b}
	default:
		return nil
	}
}

func (DS4Mapping) classifyTrigger(ev RawEvent) SemanticEvent {
	if ev.Kind != KindAxis {
		return nil
	}

	var t Trigger
	switch ev.ID {
	case ds4AxisL2:
		t = TriggerL2
	case ds4AxisR2:
		t = TriggerR2
	default:
		return nil
	}

	if ev.Value == TriggerRest {
		return TriggerReleased{Trigger: t}
	}
	return TriggerPulled{Trigger: t, Value: ev.Value}
}

func (DS4Mapping) classifyDPad(ev RawEvent) SemanticEvent {
	if ev.Kind != KindAxis {
		return nil
	}

	switch ev.ID {
	case ds4AxisDPadX:
		switch {
		case ev.Value < 0:
			return DPadPressed{Direction: DPadLeft}
		case ev.Value > 0:
			return DPadPressed{Direction: DPadRight}
		default:
			return DPadCentered{Axis: DPadHorizontal}
		}
	case ds4AxisDPadY:
		switch {
		case ev.Value < 0:
			return DPadPressed{Direction: DPadUp}
		case ev.Value > 0:
			return DPadPressed{Direction: DPadDown}
		default:
			return DPadCentered{Axis: DPadVertical}
		}
	}
	return nil
}
