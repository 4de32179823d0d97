package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAddsAndRemoves(t *testing.T) {
	delta, err := Reconcile(NewSet("carrot", "mango"), NewSet("carrot", "apple"), 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"mango"}, Sorted(delta.ToAdd))
	assert.Equal(t, []string{"apple"}, Sorted(delta.ToRemove))
	assert.False(t, delta.Empty())
}

func TestReconcileEqualSetsIsEmpty(t *testing.T) {
	delta, err := Reconcile(NewSet(1, 2, 3), NewSet(3, 2, 1), 3)
	require.NoError(t, err)
	assert.True(t, delta.Empty())
}

func TestReconcileEmptyDesiredRemovesAll(t *testing.T) {
	delta, err := Reconcile(NewSet[int](), NewSet(4, 5), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, Sorted(delta.ToRemove))
	assert.Zero(t, delta.ToAdd.Len())
}

func TestReconcileAtLimitIsAllowed(t *testing.T) {
	_, err := Reconcile(NewSet(1, 2, 3, 4, 5), NewSet[int](), 5)
	assert.NoError(t, err)
}

func TestReconcileOverLimit(t *testing.T) {
	_, err := Reconcile(NewSet(1, 2, 3, 4, 5, 6), NewSet(1), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLimitExceeded))

	var limitErr *LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 5, limitErr.Limit)
	assert.Equal(t, 6, limitErr.Requested)
}

func TestReconcileCountsDistinctDesired(t *testing.T) {
	_, err := Reconcile(NewSet(1, 1, 1, 2), NewSet[int](), 2)
	assert.NoError(t, err)
}

func TestReconcileApplyingDeltaYieldsDesired(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		desired := randomSet(rng, 8)
		current := randomSet(rng, 8)

		delta, err := Reconcile(desired, current, 8)
		require.NoError(t, err)

		assert.Zero(t, delta.ToAdd.Difference(desired).Len(), "added keys must be desired")
		assert.Zero(t, delta.ToRemove.Difference(current).Len(), "removed keys must be current")

		result := NewSet[int]()
		for k := range current {
			if !delta.ToRemove.Has(k) {
				result[k] = struct{}{}
			}
		}
		for k := range delta.ToAdd {
			result[k] = struct{}{}
		}
		assert.True(t, result.Equal(desired))
	}
}

func randomSet(rng *rand.Rand, max int) Set[int] {
	s := NewSet[int]()
	n := rng.Intn(max + 1)
	for len(s) < n {
		s[rng.Intn(12)] = struct{}{}
	}
	return s
}

func TestPartialSaveErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&PartialSaveError{Err: cause})
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrLimitExceeded))
}
