package headers

// HeaderMap is a multimap from header Name to the ordered list of values
// seen for that name.
type HeaderMap struct {
	values map[string][]string
}

// NewHeaderMap returns an empty HeaderMap.
func NewHeaderMap() *HeaderMap {
	return &HeaderMap{values: make(map[string][]string)}
}

// FromPairs builds a HeaderMap from a flat sequence of name/value pairs,
// preserving duplicates in insertion order.
func FromPairs(pairs [][2]string) *HeaderMap {
	hm := NewHeaderMap()
	for _, p := range pairs {
		hm.Add(New(p[0]), p[1])
	}
	return hm
}

// Add appends value to the list of values for name, creating the entry if
// this is the first value seen for name.
func (hm *HeaderMap) Add(name Name, value string) {
	key := name.String()
	hm.values[key] = append(hm.values[key], value)
}

// Values returns every value recorded for name, in insertion order, and
// whether name has been seen at all.
func (hm *HeaderMap) Values(name Name) ([]string, bool) {
	vs, ok := hm.values[name.String()]
	return vs, ok
}

// First returns the first value recorded for name, and whether name has
// been seen at all.
func (hm *HeaderMap) First(name Name) (string, bool) {
	vs, ok := hm.values[name.String()]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Contains reports whether name was seen with value among its recorded
// values.
func (hm *HeaderMap) Contains(name Name, value string) bool {
	for _, v := range hm.values[name.String()] {
		if v == value {
			return true
		}
	}
	return false
}

// Len returns the number of distinct header names recorded.
func (hm *HeaderMap) Len() int {
	return len(hm.values)
}

// Range calls fn once per (name, value) pair, in insertion order within a
// single name. Order across distinct names is unspecified, matching the
// underlying map's iteration order.
func (hm *HeaderMap) Range(fn func(name, value string)) {
	for name, values := range hm.values {
		for _, v := range values {
			fn(name, v)
		}
	}
}
