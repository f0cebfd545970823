package animator

import (
	"github.com/Carmen-Shannon/pajarita-go/engine/model"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithMaxInstances is an option builder that sets the maximum number of instances the Animator can manage.
//
// Parameters:
//   - maxInstances: the maximum number of instances to support
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the max instances option to an animator
func WithMaxInstances(maxInstances int) AnimatorBuilderOption {
	return func(a *animator) {
		a.backend.SetMaxInstances(uint32(maxInstances))
	}
}

// WithSpinSpeed is an option builder that sets the global spin rate in radians per second.
//
// Parameters:
//   - radiansPerSecond: the spin rate applied while spinning is enabled
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the spin speed option to an animator
func WithSpinSpeed(radiansPerSecond float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.backend.SetSpinSpeed(radiansPerSecond)
	}
}

// WithModel is an option builder that assigns a Model to the Animator during construction.
// This calls SetModel internally, which adopts the model's pivot offset for matrix builds.
//
// Parameters:
//   - m: the Model to associate with this animator
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the model option to an animator
func WithModel(m model.Model) AnimatorBuilderOption {
	return func(a *animator) {
		a.SetModel(m)
	}
}
