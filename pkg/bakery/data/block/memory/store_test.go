package memory

import (
	"testing"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block/tests"
)

func TestBlockMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
