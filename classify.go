package ds4

import "fmt"

// Kind tags the two record classes the joystick interface emits.
type Kind uint8

const (
	KindButton Kind = 0x01
	KindAxis   Kind = 0x02
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindAxis:
		return "axis"
	default:
		return fmt.Sprintf("kind(%#02x)", uint8(k))
	}
}

// initFlag is set on the kind byte of records the driver synthesizes right
// after open to report the device's starting state.
const initFlag = 0x80

// RawEvent is one decoded wire record: produced once per record, classified
// once, never retained.
type RawEvent struct {
	ID    int   // control number within its kind
	Kind  Kind  // button or axis, initFlag already masked off
	Value int16 // sample value
	Init  bool  // true on synthetic initial-state records
}

// DecodeRecord extracts the logical fields of one wire record. It performs
// no device-specific interpretation; that belongs to the Mapping.
func DecodeRecord(l *Layout, fm FieldMap, rec []byte) RawEvent {
	kind := byte(l.Int(rec, fm.Kind))
	return RawEvent{
		ID:    int(byte(l.Int(rec, fm.ID))),
		Kind:  Kind(kind &^ initFlag),
		Value: int16(l.Int(rec, fm.Value)),
		Init:  kind&initFlag != 0,
	}
}
