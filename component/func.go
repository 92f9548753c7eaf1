package component

import "context"

// FuncConfig configures a function-backed component.
type FuncConfig struct {
	// Type is the component type identifier.
	Type string
	// Inputs declares the expected input slots.
	Inputs []PortSpec
	// Outputs declares the produced output slots.
	Outputs []PortSpec
	// Execute is the component body.
	Execute func(ctx context.Context, inputs Inputs) (Outputs, error)
}

// Func bridges a plain function into a Component. Useful for transforms and
// for stubbing components in tests.
func Func(cfg FuncConfig) Component {
	return &funcComponent{cfg: cfg}
}

type funcComponent struct {
	cfg FuncConfig
}

func (c *funcComponent) Type() string            { return c.cfg.Type }
func (c *funcComponent) InputSpecs() []PortSpec  { return c.cfg.Inputs }
func (c *funcComponent) OutputSpecs() []PortSpec { return c.cfg.Outputs }

func (c *funcComponent) Execute(ctx context.Context, inputs Inputs) (Outputs, error) {
	return c.cfg.Execute(ctx, inputs)
}
