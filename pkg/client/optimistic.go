package client

// ApplyOptimistic mutates a local view speculatively, then runs the
// authoritative call. If the call fails, the view is restored to the
// pre-mutation snapshot and the error is returned unchanged.
//
// V must be copyable by assignment (no shared mutable internals), so the
// captured snapshot is a true pre-image. Views holding slices or maps should
// use ApplyOptimisticFunc with an explicit deep-copy instead.
func ApplyOptimistic[V any](view *V, mutate func(*V), call func() error) error {
	snapshot := *view
	mutate(view)
	if err := call(); err != nil {
		*view = snapshot
		return err
	}
	return nil
}

// ApplyOptimisticFunc is ApplyOptimistic with caller-provided snapshot and
// restore steps, for views that need deep copies.
func ApplyOptimisticFunc(snapshot func() (restore func()), mutate func(), call func() error) error {
	restore := snapshot()
	mutate()
	if err := call(); err != nil {
		restore()
		return err
	}
	return nil
}
