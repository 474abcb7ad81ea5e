// internal/pkg/optimistic/optimistic.go
package optimistic

// Mutate runs a local mutation ahead of its remote counterpart and undoes
// it if the remote write fails.
//
// snapshot must be an independent copy of the state apply is about to
// change; restore receives it back untouched when attempt returns an
// error. A nil attempt means there is no remote to reconcile with and the
// local mutation stands on its own.
func Mutate[S any](snapshot S, apply func(), attempt func() error, restore func(S)) error {
	apply()

	if attempt == nil {
		return nil
	}

	if err := attempt(); err != nil {
		restore(snapshot)
		return err
	}

	return nil
}
