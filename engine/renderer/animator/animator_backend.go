package animator

// AnimatorBackendType identifies the type of animation backend used by an Animator.
type AnimatorBackendType int

const (
	// BackendTypeTransform is the instanced transform backend. It owns the CPU
	// mirror of the per-instance storage buffer, rebuilds model matrices from
	// rest-pose state plus the global spin accumulator, and stages coalesced
	// GPU buffer writes for mutated instances.
	BackendTypeTransform AnimatorBackendType = iota
)

// AnimatorBackend is the interface all animation backends must implement.
type AnimatorBackend interface {
	transformAnimatorBackend
}
