package optimistic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateAppliesAndKeepsChangeOnRemoteSuccess(t *testing.T) {
	items := []int{1, 2}

	snapshot := append([]int(nil), items...)
	err := Mutate(snapshot,
		func() { items = append(items, 3) },
		func() error { return nil },
		func(prev []int) { items = prev },
	)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, items)
}

func TestMutateRestoresSnapshotOnRemoteFailure(t *testing.T) {
	items := []int{1, 2}
	remoteErr := errors.New("backend unavailable")

	snapshot := append([]int(nil), items...)
	err := Mutate(snapshot,
		func() { items = append(items[:0], 9, 9, 9) },
		func() error { return remoteErr },
		func(prev []int) { items = prev },
	)

	require.ErrorIs(t, err, remoteErr)
	assert.Equal(t, []int{1, 2}, items, "state after rollback must equal the pre-mutation snapshot")
}

func TestMutateWithoutRemoteIsLocalOnly(t *testing.T) {
	count := 0

	err := Mutate(count,
		func() { count++ },
		nil,
		func(prev int) { count = prev },
	)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMutateOrdering(t *testing.T) {
	var calls []string

	_ = Mutate(struct{}{},
		func() { calls = append(calls, "apply") },
		func() error { calls = append(calls, "attempt"); return errors.New("boom") },
		func(struct{}) { calls = append(calls, "restore") },
	)

	assert.Equal(t, []string{"apply", "attempt", "restore"}, calls)
}
