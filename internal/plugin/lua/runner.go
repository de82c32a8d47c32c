package lua

import (
	"context"
)

// Runner runs paint scripts against a target.
type Runner struct {
	state  *State
	bridge *Bridge
}

// NewRunner creates a sandboxed state with the pixel table bound to target.
func NewRunner(target Target, opts ...StateOption) (*Runner, error) {
	if target == nil {
		return nil, ErrNoTarget
	}
	state := NewState(opts...)
	bridge := NewBridge(target)
	bridge.Install(state.L)

	return &Runner{state: state, bridge: bridge}, nil
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.state.DoFile(ctx, path)
}

// RunString executes a script from source.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.state.DoString(ctx, code)
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.state.Close()
}

// RunFile is a convenience that runs one script file against target.
func RunFile(ctx context.Context, target Target, path string, opts ...StateOption) error {
	r, err := NewRunner(target, opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.RunFile(ctx, path)
}
