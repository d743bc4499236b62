package stats

import (
	"sort"

	"github.com/corey/chatstat/internal/ports"
)

// Multiset counts occurrences of string keys.
type Multiset map[string]int

// Add increments key by n. Non-positive n is ignored.
func (m Multiset) Add(key string, n int) {
	if n > 0 {
		m[key] += n
	}
}

// Merge adds every count of o into m.
func (m Multiset) Merge(o Multiset) {
	for k, v := range o {
		m.Add(k, v)
	}
}

// Total returns the sum of all counts.
func (m Multiset) Total() int {
	t := 0
	for _, v := range m {
		t += v
	}
	return t
}

// Top returns up to n entries ordered by count descending, then key
// ascending. n <= 0 returns every entry.
func (m Multiset) Top(n int) []ports.Count {
	out := make([]ports.Count, 0, len(m))
	for k, v := range m {
		out = append(out, ports.Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Alphabetical returns every entry ordered by key.
func (m Multiset) Alphabetical() []ports.Count {
	out := make([]ports.Count, 0, len(m))
	for k, v := range m {
		out = append(out, ports.Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Span returns the smallest and largest keys, or "" for an empty multiset.
// For date-keyed multisets this is the first and last active day.
func (m Multiset) Span() (first, last string) {
	for k := range m {
		if first == "" || k < first {
			first = k
		}
		if last == "" || k > last {
			last = k
		}
	}
	return first, last
}
