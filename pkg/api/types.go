package api

import "fmt"

// ContainerKind identifies one of the machine's consumable containers.
type ContainerKind string

const (
	// ContainerWater is the water tank, measured in milliliters.
	ContainerWater ContainerKind = "water"

	// ContainerCoffee is the ground coffee hopper, measured in grams.
	ContainerCoffee ContainerKind = "coffee"
)

// Measurement units, fixed per container kind at construction.
const (
	UnitMilliliters = "ml"
	UnitGrams       = "g"
)

// ParseContainerKind validates a container kind from user input.
func ParseContainerKind(s string) (ContainerKind, error) {
	switch ContainerKind(s) {
	case ContainerWater:
		return ContainerWater, nil
	case ContainerCoffee:
		return ContainerCoffee, nil
	default:
		return "", fmt.Errorf("unknown container %q", s)
	}
}

// Container is a capacity-bounded quantity of one consumable.
// The invariant 0 <= Level <= Capacity holds at all times; Validate
// is called before and after every mutation in the engine.
type Container struct {
	Name     ContainerKind `json:"name"`
	Capacity int           `json:"capacity"`
	Level    int           `json:"level"`
	Unit     string        `json:"unit"`
}

// Validate checks the container invariants.
func (c *Container) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("container %s: capacity must be positive, got %d", c.Name, c.Capacity)
	}
	if c.Level < 0 {
		return fmt.Errorf("container %s: level is negative (%d)", c.Name, c.Level)
	}
	if c.Level > c.Capacity {
		return fmt.Errorf("container %s: level %d exceeds capacity %d", c.Name, c.Level, c.Capacity)
	}
	if c.Unit == "" {
		return fmt.Errorf("container %s: unit is empty", c.Name)
	}
	return nil
}

// FreeSpace returns how much more the container can hold.
func (c *Container) FreeSpace() int {
	return c.Capacity - c.Level
}

// MachineState is the complete persisted snapshot of the machine.
// It is the sole unit of durability: storage adapters read and write
// it as one value, never partially. LastMessage is empty until the
// first successful brew or fill.
type MachineState struct {
	Water       Container `json:"water"`
	Coffee      Container `json:"coffee"`
	LastMessage string    `json:"last_message,omitempty"`
}

// Validate checks the invariants of both containers.
func (s *MachineState) Validate() error {
	if err := s.Water.Validate(); err != nil {
		return err
	}
	if err := s.Coffee.Validate(); err != nil {
		return err
	}
	return nil
}

// Clone returns an independent copy of the snapshot.
func (s *MachineState) Clone() *MachineState {
	cp := *s
	return &cp
}

// Container returns a pointer to the container of the given kind,
// or nil for an unknown kind.
func (s *MachineState) Container(kind ContainerKind) *Container {
	switch kind {
	case ContainerWater:
		return &s.Water
	case ContainerCoffee:
		return &s.Coffee
	default:
		return nil
	}
}

// NewMachineState creates a snapshot with both containers filled to
// the given capacities. Used on first boot when no prior snapshot
// exists.
func NewMachineState(waterCapacityML, coffeeCapacityG int) *MachineState {
	return &MachineState{
		Water: Container{
			Name:     ContainerWater,
			Capacity: waterCapacityML,
			Level:    waterCapacityML,
			Unit:     UnitMilliliters,
		},
		Coffee: Container{
			Name:     ContainerCoffee,
			Capacity: coffeeCapacityG,
			Level:    coffeeCapacityG,
			Unit:     UnitGrams,
		},
	}
}

// ---------------------------------------------------------------------------
// Request and response schemas
// ---------------------------------------------------------------------------

// FillRequest is the body of a container fill request.
type FillRequest struct {
	Amount int `json:"amount"`
}

// StatusResponse wraps the machine snapshot for the status endpoint.
type StatusResponse struct {
	Status MachineState `json:"status"`
}

// BrewUsage reports the resources consumed by one brew.
type BrewUsage struct {
	WaterML int `json:"water_ml"`
	CoffeeG int `json:"coffee_g"`
}

// BrewResponse is returned after a successful brew.
type BrewResponse struct {
	Message string       `json:"message"`
	Drink   string       `json:"drink"`
	Used    BrewUsage    `json:"used"`
	Status  MachineState `json:"status"`
}

// FillResponse is returned after a successful fill.
type FillResponse struct {
	Message string       `json:"message"`
	Status  MachineState `json:"status"`
}
