package toposort_test

import (
	"testing"

	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/engine/toposort"
	"github.com/stretchr/testify/require"
)

func depsMap(m map[string][]string) func(string) []string {
	return func(id string) []string { return m[id] }
}

func TestOrder_LinearChain(t *testing.T) {
	ids := []string{"a", "b", "c"}
	deps := depsMap(map[string][]string{"c": {"b"}, "b": {"a"}})

	order, err := toposort.Order(ids, deps)
	require.NoError(t, err)

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	require.Less(t, pos["a"], pos["b"])
	require.Less(t, pos["b"], pos["c"])
}

func TestOrder_Cycle(t *testing.T) {
	ids := []string{"a", "b"}
	deps := depsMap(map[string][]string{"a": {"b"}, "b": {"a"}})

	_, err := toposort.Order(ids, deps)
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
}

func TestOrder_IgnoresDepsOutsideSet(t *testing.T) {
	ids := []string{"a"}
	deps := depsMap(map[string][]string{"a": {"outside"}})

	order, err := toposort.Order(ids, deps)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, order)
}

func TestParallelLevels_Diamond(t *testing.T) {
	// d depends on b and c, both of which depend on a.
	ids := []string{"a", "b", "c", "d"}
	deps := depsMap(map[string][]string{
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	})

	levels, err := toposort.ParallelLevels(ids, deps)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	require.Equal(t, []string{"a"}, levels[0])
	require.Len(t, levels[1], 2)
	require.Equal(t, []string{"d"}, levels[2])
}

func TestParallelLevels_Cycle(t *testing.T) {
	ids := []string{"a", "b"}
	deps := depsMap(map[string][]string{"a": {"b"}, "b": {"a"}})

	_, err := toposort.ParallelLevels(ids, deps)
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
}

func TestParallelLevels_Independent(t *testing.T) {
	ids := []string{"a", "b", "c"}
	deps := depsMap(map[string][]string{})

	levels, err := toposort.ParallelLevels(ids, deps)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	require.Len(t, levels[0], 3)
}
