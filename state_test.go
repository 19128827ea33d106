package ds4

import (
	"encoding/json"
	"testing"
)

// TestNewState_Rest tests the all-at-rest snapshot, in particular the
// trigger sentinels.
func TestNewState_Rest(t *testing.T) {
	s := NewState()

	if s.L2 != TriggerRest || s.R2 != TriggerRest {
		t.Errorf("expected triggers at %d, got L2=%d R2=%d", TriggerRest, s.L2, s.R2)
	}
	if s.L3X != StickRest || s.L3Y != StickRest || s.R3X != StickRest || s.R3Y != StickRest {
		t.Error("expected stick axes at rest")
	}
	if s.X || s.Circle || s.Up || s.Share || s.PlayStation || s.L3 {
		t.Error("expected all buttons released")
	}
}

// TestState_Map tests that the flat form carries every control under its
// canonical name, in agreement with the JSON encoding.
func TestState_Map(t *testing.T) {
	s := NewState()
	s.Triangle = true
	s.R2 = 1500
	s.L3Y = -42

	m := s.Map()
	if len(m) != 21 {
		t.Fatalf("expected 21 keys, got %d", len(m))
	}
	if v, ok := m["triangle"].(bool); !ok || !v {
		t.Errorf("expected triangle=true, got %#v", m["triangle"])
	}
	if v, ok := m["R2"].(int16); !ok || v != 1500 {
		t.Errorf("expected R2=1500, got %#v", m["R2"])
	}
	if v, ok := m["L3_y"].(int16); !ok || v != -42 {
		t.Errorf("expected L3_y=-42, got %#v", m["L3_y"])
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key := range m {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON encoding missing key %q", key)
		}
	}
	if len(decoded) != len(m) {
		t.Errorf("expected %d JSON keys, got %d", len(m), len(decoded))
	}
}
