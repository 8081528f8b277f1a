package index

import "time"

// Observer receives measurements from an Index. Implementations must be safe
// for concurrent use; ObserveGroup is called from fetch goroutines.
type Observer interface {
	// ObserveGroup is called once per group after its fetch and flattening.
	ObserveGroup(group string, entries int, elapsed time.Duration, err error)
	// ObserveBuild is called once when the index becomes ready.
	ObserveBuild(stats Stats)
	// ObserveSearch is called after every search that ran against a ready
	// index with a valid query.
	ObserveSearch(hits int, elapsed time.Duration)
}

// NopObserver discards all measurements.
type NopObserver struct{}

func (NopObserver) ObserveGroup(string, int, time.Duration, error) {}
func (NopObserver) ObserveBuild(Stats)                             {}
func (NopObserver) ObserveSearch(int, time.Duration)               {}
