package ds4

// reduce applies a semantic event to the snapshot and returns the label to
// append to history, or "" when the event leaves no trace there. Presses
// and motion label history; releases do not. A stick returning to rest
// counts as motion and keeps its label.
func reduce(s *State, ev SemanticEvent) string {
	switch e := ev.(type) {
	case ButtonPressed:
		s.setButton(e.Button, true)
		return e.Button.String()
	case ButtonReleased:
		s.setButton(e.Button, false)
		return ""
	case StickMoved:
		s.setStickAxis(e.Stick, e.Axis, e.Value)
		return e.Stick.String()
	case StickAtRest:
		s.setStickAxis(e.Stick, e.Axis, StickRest)
		return e.Stick.String()
	case TriggerPulled:
		s.setTrigger(e.Trigger, e.Value)
		return e.Trigger.String()
	case TriggerReleased:
		s.setTrigger(e.Trigger, TriggerRest)
		return ""
	case DPadPressed:
		s.setDPad(e.Direction, true)
		return e.Direction.String()
	case DPadCentered:
		// The hardware reports a single "centered" event per axis with no
		// record of which direction had been held, so both flags clear.
		if e.Axis == DPadHorizontal {
			s.Left, s.Right = false, false
		} else {
			s.Up, s.Down = false, false
		}
		return ""
	}
	return ""
}
