package cursor

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Indices returns the array indices of a selection id in order of
// appearance. "triggers[0].actions[2].elseActions[1]" yields [0 2 1].
func Indices(id string) []int {
	var out []int
	for i := 0; i < len(id); i++ {
		if id[i] != '[' {
			continue
		}
		j := i + 1
		for j < len(id) && id[j] >= '0' && id[j] <= '9' {
			j++
		}
		if j < len(id) && id[j] == ']' && j > i+1 {
			n, err := strconv.Atoi(id[i+1 : j])
			if err == nil {
				out = append(out, n)
			}
		}
		i = j
	}
	return out
}

// Compare orders selection ids by their index paths. An id whose path is a
// prefix of another's sorts first, so ancestors precede descendants. Equal
// paths fall back to string order.
func Compare(a, b string) int {
	if c := slices.Compare(Indices(a), Indices(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// within reports whether id is path or lies structurally beneath it.
func within(id, path string) bool {
	if id == "" || !strings.HasPrefix(id, path) {
		return false
	}
	if len(id) == len(path) || path == "" {
		return true
	}
	c := id[len(path)]
	return c == '.' || c == '['
}

// Sort returns ids in selection order, without duplicates.
func Sort(ids []string) []string {
	out := slices.Clone(ids)
	slices.SortStableFunc(out, Compare)
	return slices.Compact(out)
}

// Range returns the contiguous run of ids, in selection order, between from
// and to inclusive. Either end may come first. It returns nil when from or
// to is not among ids.
func Range(ids []string, from, to string) []string {
	sorted := Sort(ids)
	i, j := slices.Index(sorted, from), slices.Index(sorted, to)
	if i < 0 || j < 0 {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	return sorted[i : j+1]
}

// SelectableIDs returns the distinct selection ids of elements in selection
// order.
func SelectableIDs(elements []Element) []string {
	ids := make([]string, 0, len(elements))
	for _, e := range elements {
		if e.SelectedID != "" {
			ids = append(ids, e.SelectedID)
		}
	}
	return Sort(ids)
}
