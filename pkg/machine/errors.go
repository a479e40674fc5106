package machine

import (
	"fmt"
	"strings"

	"github.com/rhuss/kaffee/pkg/api"
)

// StorageError wraps a failure of the underlying StateStore. It marks
// errors that require operator attention rather than user-facing
// validation feedback.
type StorageError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UnknownRecipeError is returned by Brew when the recipe name is not
// in the catalog.
type UnknownRecipeError struct {
	Name string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("unknown recipe %q", e.Name)
}

// Shortfall describes one container that cannot cover a recipe's cost.
type Shortfall struct {
	Container api.ContainerKind
	Required  int
	Available int
	Unit      string
}

// InsufficientResourceError is returned by Brew when one or more
// containers cannot cover the recipe's cost. The machine state is
// left unchanged.
type InsufficientResourceError struct {
	Recipe     string
	Shortfalls []Shortfall
}

func (e *InsufficientResourceError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("the %s container only has %d %s available but %d %s is required",
			s.Container, s.Available, s.Unit, s.Required, s.Unit)
	}
	return fmt.Sprintf("cannot make %s: %s", e.Recipe, strings.Join(parts, "; "))
}

// InvalidAmountError is returned by Fill when the amount is not positive.
type InvalidAmountError struct {
	Container api.ContainerKind
	Amount    int
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("the amount (%d) to add to the %s container must be a positive number",
		e.Amount, e.Container)
}

// OverflowError is returned by Fill when the amount would exceed the
// container's capacity. MaxFill is the largest amount that would have
// fit. The machine state is left unchanged.
type OverflowError struct {
	Container api.ContainerKind
	Amount    int
	MaxFill   int
	Unit      string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("adding %d %s to the %s container would overflow it; it has room for only %d %s more",
		e.Amount, e.Unit, e.Container, e.MaxFill, e.Unit)
}
