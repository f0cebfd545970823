package lattice

// ControllerBuilderOption is a function that configures a Controller during creation.
type ControllerBuilderOption func(*controller)

// WithInitialParameters sets the starting parameter snapshot. The snapshot is
// clamped on the way in so the controller never starts out of bounds.
//
// Parameters:
//   - params: the initial configuration
//
// Returns:
//   - ControllerBuilderOption: the option function
func WithInitialParameters(params Parameters) ControllerBuilderOption {
	return func(c *controller) {
		c.params = params.Clamped()
	}
}

// WithMarkersVisible sets the starting marker-overlay visibility flag.
//
// Parameters:
//   - visible: true to start with the overlay drawn
//
// Returns:
//   - ControllerBuilderOption: the option function
func WithMarkersVisible(visible bool) ControllerBuilderOption {
	return func(c *controller) {
		c.markersVisible = visible
	}
}

// WithChangeHandler sets the handler invoked with the new snapshot whenever a
// parameter action actually changes the configuration. This is where the
// scene's lattice regeneration hangs off.
//
// Parameters:
//   - handler: called synchronously from Apply with the published snapshot
//
// Returns:
//   - ControllerBuilderOption: the option function
func WithChangeHandler(handler func(Parameters)) ControllerBuilderOption {
	return func(c *controller) {
		c.onChange = handler
	}
}

// WithMarkerHandler sets the handler invoked when marker visibility toggles.
//
// Parameters:
//   - handler: called synchronously from Apply with the new visibility
//
// Returns:
//   - ControllerBuilderOption: the option function
func WithMarkerHandler(handler func(visible bool)) ControllerBuilderOption {
	return func(c *controller) {
		c.onMarkers = handler
	}
}

// WithSpinHandler sets the handler invoked when global spin toggles.
//
// Parameters:
//   - handler: called synchronously from Apply with the new spin state
//
// Returns:
//   - ControllerBuilderOption: the option function
func WithSpinHandler(handler func(active bool)) ControllerBuilderOption {
	return func(c *controller) {
		c.onSpin = handler
	}
}
