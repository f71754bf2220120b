package cloud

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// VariableReader reads single named variables from devices.
type VariableReader struct {
	cloud Cloud
}

// NewVariableReader creates a reader over the given cloud.
func NewVariableReader(c Cloud) *VariableReader {
	return &VariableReader{cloud: c}
}

// Read reads the named variable from dev. A variable the device does not
// declare yields Variable{Declared: false} without a network call.
func (r *VariableReader) Read(ctx context.Context, dev Device, name string) (Variable, error) {
	if !dev.HasVariable(name) {
		log.Debug().Str("device", dev.Name).Str("variable", name).Msg("Variable not declared on device")
		return Variable{}, nil
	}

	value, err := r.cloud.GetVariable(ctx, dev.ID, name)
	if err != nil {
		return Variable{}, fmt.Errorf("%w: %s on %s: %v", ErrRead, name, dev.Name, err)
	}

	return Variable{Declared: true, Value: value}, nil
}
