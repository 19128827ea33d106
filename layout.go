package ds4

import (
	"encoding/binary"
	"fmt"
)

// DefaultLayoutFormat is the wire layout of the kernel joystick interface as
// this engine consumes it: three unsigned bytes of truncated timestamp, a
// signed 16-bit sample value, and two signed bytes for event kind and
// control id. With natural alignment the record is 8 bytes wide.
const DefaultLayoutFormat = "3Bh2b"

// Layout describes the fixed-width wire format of one device record as a
// struct-style format string such as "3Bh2b" or "LhBB".
//
// Supported field codes, each with an optional leading repeat count:
//
//	x        padding byte (consumes width, carries no value)
//	b / B    signed / unsigned 8-bit
//	h / H    signed / unsigned 16-bit
//	i / I    signed / unsigned 32-bit
//	l / L    signed / unsigned 32-bit
//	q / Q    signed / unsigned 64-bit
//
// Multi-byte fields are padded to their own natural alignment, which is how
// "3Bh2b" comes out 8 bytes wide; a leading "<" or "=" disables the
// alignment padding. Values always decode little-endian, the byte order of
// every platform the joystick interface serves here.
type Layout struct {
	format string
	fields []layoutField
	size   int
}

type layoutField struct {
	offset int
	width  int
	signed bool
}

// ParseLayout parses a layout format string.
func ParseLayout(format string) (*Layout, error) {
	if format == "" {
		return nil, fmt.Errorf("parse layout: empty format")
	}

	spec := format
	aligned := true
	switch spec[0] {
	case '<', '=':
		aligned = false
		spec = spec[1:]
	case '>', '!':
		return nil, fmt.Errorf("parse layout %q: big-endian layouts are not supported", format)
	}

	l := &Layout{format: format}
	offset := 0
	count := 0
	haveCount := false

	for i := 0; i < len(spec); i++ {
		c := spec[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			haveCount = true
			continue
		}

		n := 1
		if haveCount {
			n = count
			count = 0
			haveCount = false
		}

		width, signed, ok := fieldCode(c)
		if !ok {
			return nil, fmt.Errorf("parse layout %q: unsupported code %q", format, string(c))
		}

		if c == 'x' {
			offset += n
			continue
		}

		for k := 0; k < n; k++ {
			if aligned && width > 1 {
				if rem := offset % width; rem != 0 {
					offset += width - rem
				}
			}
			l.fields = append(l.fields, layoutField{offset: offset, width: width, signed: signed})
			offset += width
		}
	}

	if haveCount {
		return nil, fmt.Errorf("parse layout %q: trailing repeat count", format)
	}
	if len(l.fields) == 0 {
		return nil, fmt.Errorf("parse layout %q: no value fields", format)
	}

	l.size = offset
	return l, nil
}

// MustLayout is ParseLayout for known-good format literals.
func MustLayout(format string) *Layout {
	l, err := ParseLayout(format)
	if err != nil {
		panic(err)
	}
	return l
}

func fieldCode(c byte) (width int, signed, ok bool) {
	switch c {
	case 'x':
		return 1, false, true
	case 'b':
		return 1, true, true
	case 'B':
		return 1, false, true
	case 'h':
		return 2, true, true
	case 'H':
		return 2, false, true
	case 'i', 'l':
		return 4, true, true
	case 'I', 'L':
		return 4, false, true
	case 'q':
		return 8, true, true
	case 'Q':
		return 8, false, true
	}
	return 0, false, false
}

// Format returns the original format string.
func (l *Layout) Format() string { return l.format }

// Size returns the record width in bytes, alignment padding included.
func (l *Layout) Size() int { return l.size }

// NumFields returns the number of value-carrying fields, padding excluded.
func (l *Layout) NumFields() int { return len(l.fields) }

// Int decodes field i of rec as a sign-extended integer; unsigned fields
// decode to their plain value. rec must be at least Size() bytes and i must
// be a valid field index.
func (l *Layout) Int(rec []byte, i int) int64 {
	f := l.fields[i]
	b := rec[f.offset:]

	var u uint64
	switch f.width {
	case 1:
		u = uint64(b[0])
	case 2:
		u = uint64(binary.LittleEndian.Uint16(b))
	case 4:
		u = uint64(binary.LittleEndian.Uint32(b))
	default:
		u = binary.LittleEndian.Uint64(b)
	}

	if f.signed && f.width < 8 {
		shift := uint(64 - 8*f.width)
		return int64(u<<shift) >> shift
	}
	return int64(u)
}

// FieldMap names which wire field of a Layout carries each logical record
// field. Indexes count value-carrying fields in wire order, zero-based,
// padding excluded.
//
// The logical consumption order (value, kind, id) does not match the wire
// order of any known layout, so the mapping is explicit rather than
// positional.
type FieldMap struct {
	Value int // signed 16-bit sample value
	Kind  int // event-kind byte; bit 7 flags synthetic initial-state records
	ID    int // control id byte
}

// DefaultFieldMap locates the logical fields inside DefaultLayoutFormat:
// the three timestamp bytes come first and are never consumed.
var DefaultFieldMap = FieldMap{Value: 3, Kind: 4, ID: 5}

// Validate checks that every index addresses a field of l.
func (fm FieldMap) Validate(l *Layout) error {
	for _, idx := range []int{fm.Value, fm.Kind, fm.ID} {
		if idx < 0 || idx >= l.NumFields() {
			return fmt.Errorf("field map index %d out of range for layout %q (%d fields)",
				idx, l.Format(), l.NumFields())
		}
	}
	return nil
}
