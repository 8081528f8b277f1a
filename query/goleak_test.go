package query

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain fails the package if a controller or debouncer leaves goroutines
// behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
