package ds4

import (
	"encoding/binary"
	"testing"
)

// jsRecord builds one default-layout wire record: three timestamp bytes,
// alignment padding, the little-endian sample value, then kind and id.
func jsRecord(t *testing.T, value int16, kind, id byte) []byte {
	t.Helper()
	rec := make([]byte, 8)
	binary.LittleEndian.PutUint16(rec[4:], uint16(value))
	rec[6] = kind
	rec[7] = id
	return rec
}

func classifyRecord(t *testing.T, value int16, kind, id byte) SemanticEvent {
	t.Helper()
	raw := DecodeRecord(MustLayout(DefaultLayoutFormat), DefaultFieldMap, jsRecord(t, value, kind, id))
	return DS4Mapping{}.Classify(raw)
}

// TestDecodeRecord_InitFlag tests that the synthetic-record bit is split off
// the kind byte.
func TestDecodeRecord_InitFlag(t *testing.T) {
	l := MustLayout(DefaultLayoutFormat)

	raw := DecodeRecord(l, DefaultFieldMap, jsRecord(t, 1, 0x81, 2))
	if raw.Kind != KindButton {
		t.Errorf("expected kind=button, got %v", raw.Kind)
	}
	if !raw.Init {
		t.Error("expected init=true for flagged record")
	}

	raw = DecodeRecord(l, DefaultFieldMap, jsRecord(t, 1, 0x02, 0))
	if raw.Kind != KindAxis {
		t.Errorf("expected kind=axis, got %v", raw.Kind)
	}
	if raw.Init {
		t.Error("expected init=false for live record")
	}
}

// TestDS4Mapping_Buttons tests press and release classification for every
// mapped digital button.
func TestDS4Mapping_Buttons(t *testing.T) {
	buttons := map[byte]Button{
		0:  ButtonX,
		1:  ButtonCircle,
		2:  ButtonTriangle,
		3:  ButtonSquare,
		4:  ButtonL1,
		5:  ButtonR1,
		8:  ButtonShare,
		9:  ButtonOptions,
		10: ButtonPlayStation,
		11: ButtonL3,
		12: ButtonR3,
	}
	for id, want := range buttons {
		ev := classifyRecord(t, 1, 0x01, id)
		press, ok := ev.(ButtonPressed)
		if !ok || press.Button != want {
			t.Errorf("button %d press: expected %v pressed, got %#v", id, want, ev)
		}

		ev = classifyRecord(t, 0, 0x01, id)
		release, ok := ev.(ButtonReleased)
		if !ok || release.Button != want {
			t.Errorf("button %d release: expected %v released, got %#v", id, want, ev)
		}
	}

	// The digital stops behind the analog triggers stay unmapped.
	if ev := classifyRecord(t, 1, 0x01, 6); ev != nil {
		t.Errorf("digital L2: expected nil, got %#v", ev)
	}
	if ev := classifyRecord(t, 1, 0x01, 7); ev != nil {
		t.Errorf("digital R2: expected nil, got %#v", ev)
	}
}

// TestDS4Mapping_Sticks tests directional and at-rest classification for all
// four stick axes.
func TestDS4Mapping_Sticks(t *testing.T) {
	cases := []struct {
		id    byte
		stick Stick
		axis  Axis
	}{
		{0, StickLeft, AxisX},
		{1, StickLeft, AxisY},
		{3, StickRight, AxisX},
		{4, StickRight, AxisY},
	}
	for _, tc := range cases {
		ev := classifyRecord(t, -1200, 0x02, tc.id)
		moved, ok := ev.(StickMoved)
		if !ok || moved.Stick != tc.stick || moved.Axis != tc.axis || moved.Value != -1200 {
			t.Errorf("axis %d: expected %v/%v moved to -1200, got %#v", tc.id, tc.stick, tc.axis, ev)
		}

		ev = classifyRecord(t, 0, 0x02, tc.id)
		rest, ok := ev.(StickAtRest)
		if !ok || rest.Stick != tc.stick || rest.Axis != tc.axis {
			t.Errorf("axis %d: expected %v/%v at rest, got %#v", tc.id, tc.stick, tc.axis, ev)
		}
	}
}

// TestDS4Mapping_Triggers tests that trigger state is keyed to the rest
// stop, not zero: zero is a half pull.
func TestDS4Mapping_Triggers(t *testing.T) {
	ev := classifyRecord(t, TriggerRest, 0x02, 2)
	if rel, ok := ev.(TriggerReleased); !ok || rel.Trigger != TriggerL2 {
		t.Errorf("expected L2 released, got %#v", ev)
	}

	ev = classifyRecord(t, 20000, 0x02, 5)
	pull, ok := ev.(TriggerPulled)
	if !ok || pull.Trigger != TriggerR2 || pull.Value != 20000 {
		t.Errorf("expected R2 pulled to 20000, got %#v", ev)
	}

	ev = classifyRecord(t, 0, 0x02, 2)
	pull, ok = ev.(TriggerPulled)
	if !ok || pull.Trigger != TriggerL2 || pull.Value != 0 {
		t.Errorf("expected L2 pulled to 0, got %#v", ev)
	}
}

// TestDS4Mapping_DPad tests the rocker semantics: signed value picks the
// direction, zero centers the whole axis.
func TestDS4Mapping_DPad(t *testing.T) {
	cases := []struct {
		id    byte
		value int16
		want  SemanticEvent
	}{
		{6, -32767, DPadPressed{Direction: DPadLeft}},
		{6, 32767, DPadPressed{Direction: DPadRight}},
		{6, 0, DPadCentered{Axis: DPadHorizontal}},
		{7, -32767, DPadPressed{Direction: DPadUp}},
		{7, 32767, DPadPressed{Direction: DPadDown}},
		{7, 0, DPadCentered{Axis: DPadVertical}},
	}
	for _, tc := range cases {
		if ev := classifyRecord(t, tc.value, 0x02, tc.id); ev != tc.want {
			t.Errorf("axis %d value %d: expected %#v, got %#v", tc.id, tc.value, tc.want, ev)
		}
	}
}

// TestDS4Mapping_UnknownRecords tests that records outside the table come
// back nil instead of guessing.
func TestDS4Mapping_UnknownRecords(t *testing.T) {
	cases := []struct {
		value int16
		kind  byte
		id    byte
	}{
		{1, 0x00, 0},  // kind neither button nor axis
		{1, 0x01, 13}, // button id off the pad
		{1, 0x02, 8},  // axis id off the pad
		{2, 0x01, 1},  // button value neither edge
	}
	for _, tc := range cases {
		if ev := classifyRecord(t, tc.value, tc.kind, tc.id); ev != nil {
			t.Errorf("kind %#x id %d value %d: expected nil, got %#v", tc.kind, tc.id, tc.value, ev)
		}
	}
}

// TestDS4Mapping_InitRecords tests that the driver's initial-state burst
// classifies exactly like live input.
func TestDS4Mapping_InitRecords(t *testing.T) {
	live := classifyRecord(t, 1, 0x01, 1)
	init := classifyRecord(t, 1, 0x81, 1)
	if live != init {
		t.Errorf("expected identical classification, got live=%#v init=%#v", live, init)
	}

	if ev := classifyRecord(t, -5000, 0x82, 3); ev != (StickMoved{Stick: StickRight, Axis: AxisX, Value: -5000}) {
		t.Errorf("expected right stick x moved, got %#v", ev)
	}
}
