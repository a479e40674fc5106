package api

import (
	"encoding/json"
	"testing"
)

func TestNewMachineState(t *testing.T) {
	s := NewMachineState(2000, 500)

	if s.Water.Level != 2000 || s.Water.Capacity != 2000 {
		t.Errorf("water = %d/%d, want 2000/2000", s.Water.Level, s.Water.Capacity)
	}
	if s.Coffee.Level != 500 || s.Coffee.Capacity != 500 {
		t.Errorf("coffee = %d/%d, want 500/500", s.Coffee.Level, s.Coffee.Capacity)
	}
	if s.Water.Unit != UnitMilliliters {
		t.Errorf("water unit = %q, want %q", s.Water.Unit, UnitMilliliters)
	}
	if s.Coffee.Unit != UnitGrams {
		t.Errorf("coffee unit = %q, want %q", s.Coffee.Unit, UnitGrams)
	}
	if s.LastMessage != "" {
		t.Errorf("fresh state has message %q", s.LastMessage)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("fresh state invalid: %v", err)
	}
}

func TestContainerValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Container
		wantErr bool
	}{
		{"valid", Container{Name: ContainerWater, Capacity: 2000, Level: 1000, Unit: "ml"}, false},
		{"empty at zero", Container{Name: ContainerWater, Capacity: 2000, Level: 0, Unit: "ml"}, false},
		{"full", Container{Name: ContainerCoffee, Capacity: 500, Level: 500, Unit: "g"}, false},
		{"negative level", Container{Name: ContainerWater, Capacity: 2000, Level: -1, Unit: "ml"}, true},
		{"over capacity", Container{Name: ContainerCoffee, Capacity: 500, Level: 501, Unit: "g"}, true},
		{"zero capacity", Container{Name: ContainerWater, Capacity: 0, Level: 0, Unit: "ml"}, true},
		{"missing unit", Container{Name: ContainerWater, Capacity: 2000, Level: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContainerFreeSpace(t *testing.T) {
	c := Container{Name: ContainerCoffee, Capacity: 500, Level: 490, Unit: "g"}
	if got := c.FreeSpace(); got != 10 {
		t.Errorf("FreeSpace() = %d, want 10", got)
	}
}

func TestParseContainerKind(t *testing.T) {
	if k, err := ParseContainerKind("water"); err != nil || k != ContainerWater {
		t.Errorf("ParseContainerKind(water) = %v, %v", k, err)
	}
	if k, err := ParseContainerKind("coffee"); err != nil || k != ContainerCoffee {
		t.Errorf("ParseContainerKind(coffee) = %v, %v", k, err)
	}
	if _, err := ParseContainerKind("milk"); err == nil {
		t.Error("ParseContainerKind(milk) should fail")
	}
}

func TestMachineStateClone(t *testing.T) {
	s := NewMachineState(2000, 500)
	cp := s.Clone()

	cp.Water.Level = 10
	cp.LastMessage = "changed"

	if s.Water.Level != 2000 {
		t.Errorf("clone mutation leaked into original: level = %d", s.Water.Level)
	}
	if s.LastMessage != "" {
		t.Errorf("clone mutation leaked into original: message = %q", s.LastMessage)
	}
}

func TestMachineStateContainerAccessor(t *testing.T) {
	s := NewMachineState(2000, 500)

	if c := s.Container(ContainerWater); c == nil || c.Name != ContainerWater {
		t.Errorf("Container(water) = %v", c)
	}
	if c := s.Container(ContainerCoffee); c == nil || c.Name != ContainerCoffee {
		t.Errorf("Container(coffee) = %v", c)
	}
	if c := s.Container("milk"); c != nil {
		t.Errorf("Container(milk) = %v, want nil", c)
	}

	// Accessor must alias the snapshot, not copy it.
	s.Container(ContainerWater).Level = 42
	if s.Water.Level != 42 {
		t.Error("Container() returned a copy instead of a pointer")
	}
}

func TestMachineStateJSONRoundTrip(t *testing.T) {
	s := NewMachineState(2000, 500)
	s.Water.Level = 1976
	s.LastMessage = "Espresso is ready!"

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got MachineState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got != *s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, *s)
	}
}

func TestMachineStateJSONOmitsEmptyMessage(t *testing.T) {
	data, err := json.Marshal(NewMachineState(2000, 500))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["last_message"]; ok {
		t.Error("last_message should be absent when empty")
	}
}
