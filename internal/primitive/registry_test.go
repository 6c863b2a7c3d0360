package primitive

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRegistry_RegisterAssignsIDsFromOne(t *testing.T) {
	reg := NewRegistry()

	a := NewPipeline(reg, "a")
	b := NewScale(reg, "b")

	require.Equal(t, ID(1), a.ID())
	require.Equal(t, ID(2), b.ID())
	require.Equal(t, 2, reg.Len())
}

func TestRegistry_LookupResolvesRegisteredPrimitive(t *testing.T) {
	reg := NewRegistry()
	p := NewPipeline(reg, "cars")

	got, ok := reg.Lookup(p.ID())
	require.True(t, ok)
	require.Same(t, p, got)
	require.Equal(t, "cars", got.Name())
}

func TestRegistry_LookupUnknownID(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Lookup(42)
	require.False(t, ok)

	// Zero is never a valid id.
	_, ok = reg.Lookup(0)
	require.False(t, ok)
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	reg := NewRegistry()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				NewScale(reg, "s")
			}
		}()
	}
	wg.Wait()

	require.Equal(t, workers*perWorker, reg.Len())
	for id := ID(1); id <= ID(workers*perWorker); id++ {
		_, ok := reg.Lookup(id)
		require.True(t, ok, "id %d should resolve", id)
	}
}

func TestRegistry_ObserverSeesSetterMutations(t *testing.T) {
	reg := NewRegistry()
	var touches int
	reg.SetOnMutate(func() { touches++ })

	p := NewPipeline(reg, "cars")
	require.Zero(t, touches, "registration alone is not a mutation")

	p.AddDataset(Dataset{Name: "cars"})
	require.Equal(t, 1, touches)

	NewScale(reg, "x").SetType("ordinal").SetDomain([]int{0, 1})
	require.Equal(t, 3, touches)
}

func TestRegistry_TouchWithoutObserver(t *testing.T) {
	reg := NewRegistry()

	// No observer installed: setters must not panic.
	NewScale(reg, "x").SetRange("width")
}

func TestRegistry_IDsStayResolvable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		seen := make(map[ID]bool)

		n := rapid.IntRange(1, 40).Draw(t, "n")
		for i := 0; i < n; i++ {
			name := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name")

			var id ID
			switch rapid.IntRange(0, 2).Draw(t, "kind") {
			case 0:
				id = NewPipeline(reg, name).ID()
			case 1:
				id = NewScale(reg, name).ID()
			default:
				id = NewMark(reg, "symbol", name).ID()
			}

			require.False(t, seen[id], "id %d allocated twice", id)
			seen[id] = true

			p, ok := reg.Lookup(id)
			require.True(t, ok)
			require.Equal(t, id, p.ID())
			require.Equal(t, name, p.Name())
		}
		require.Equal(t, n, reg.Len())
	})
}
