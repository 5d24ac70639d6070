// internal/investment/features/vector.go
package features

// Vector is a fixed-length ordered mapping from slot names to values.
// It is immutable once built.
type Vector struct {
	names  []string
	values []float64
	index  map[string]int
}

// NewVector lays values out in the order of names. Names absent from values
// are set to 0.
func NewVector(names []string, values map[string]float64) *Vector {
	v := &Vector{
		names:  append([]string(nil), names...),
		values: make([]float64, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for i, n := range names {
		v.index[n] = i
		v.values[i] = values[n]
	}
	return v
}

func (v *Vector) Len() int { return len(v.names) }

func (v *Vector) Names() []string { return append([]string(nil), v.names...) }

func (v *Vector) Values() []float64 { return append([]float64(nil), v.values...) }

// Get returns the value for name and whether the slot exists.
func (v *Vector) Get(name string) (float64, bool) {
	i, ok := v.index[name]
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

// Ordered projects the vector onto names, filling slots it lacks with 0.
func (v *Vector) Ordered(names []string) []float64 {
	out := make([]float64, len(names))
	for i, n := range names {
		if j, ok := v.index[n]; ok {
			out[i] = v.values[j]
		}
	}
	return out
}

// Map returns a copy of the vector as a plain map.
func (v *Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.names))
	for i, n := range v.names {
		m[n] = v.values[i]
	}
	return m
}
