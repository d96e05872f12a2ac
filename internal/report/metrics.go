package report

// Metric is one report row.
type Metric struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Metrics maps report labels to counts, keeping first-insertion order so
// rows render in the configured order.
type Metrics struct {
	order  []string
	counts map[string]int
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{counts: make(map[string]int)}
}

// ZeroMetrics returns a Metrics with every label set to 0.
func ZeroMetrics(labels []string) *Metrics {
	m := NewMetrics()
	for _, l := range labels {
		m.Set(l, 0)
	}
	return m
}

// Set records a count. Negative counts are clamped to 0. Setting an
// existing label keeps its original position.
func (m *Metrics) Set(label string, count int) {
	if count < 0 {
		count = 0
	}
	if _, ok := m.counts[label]; !ok {
		m.order = append(m.order, label)
	}
	m.counts[label] = count
}

// Get returns the count for label and whether it is present.
func (m *Metrics) Get(label string) (int, bool) {
	c, ok := m.counts[label]
	return c, ok
}

// Len returns the number of labels.
func (m *Metrics) Len() int {
	return len(m.order)
}

// Merge copies every entry of other into m, in other's order.
func (m *Metrics) Merge(other *Metrics) {
	if other == nil {
		return
	}
	for _, l := range other.order {
		m.Set(l, other.counts[l])
	}
}

// Entries returns the rows in order.
func (m *Metrics) Entries() []Metric {
	out := make([]Metric, 0, len(m.order))
	for _, l := range m.order {
		out = append(out, Metric{Label: l, Count: m.counts[l]})
	}
	return out
}

// Total sums all counts.
func (m *Metrics) Total() int {
	total := 0
	for _, c := range m.counts {
		total += c
	}
	return total
}
