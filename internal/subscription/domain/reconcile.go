package domain

// Delta is the minimal change that turns the current set into the desired one.
type Delta[K comparable] struct {
	ToAdd    Set[K]
	ToRemove Set[K]
}

func (d Delta[K]) Empty() bool {
	return d.ToAdd.Len() == 0 && d.ToRemove.Len() == 0
}

// Reconcile rejects a desired set larger than limit before any diff is computed.
func Reconcile[K comparable](desired, current Set[K], limit int) (Delta[K], error) {
	if desired.Len() > limit {
		return Delta[K]{}, &LimitExceededError{Limit: limit, Requested: desired.Len()}
	}
	return Delta[K]{
		ToAdd:    desired.Difference(current),
		ToRemove: current.Difference(desired),
	}, nil
}
