package ffi

// StringVector is an opaque handle to a royale::Vector<royale::String>.
// Only the SDK populates it; this layer just allocates, indexes and frees.
type StringVector uintptr

// NewStringVector allocates an empty vector for the SDK to fill.
func NewStringVector() (StringVector, error) {
	if !libLoaded.Load() {
		return 0, ErrLibraryNotLoaded
	}
	return StringVector(royaleNewStringVector()), nil
}

// Len returns the number of strings in the vector.
func (v StringVector) Len() int {
	return int(royaleStringVectorLength(uintptr(v)))
}

// Get returns a copy of element i. The index must be smaller than Len;
// out-of-range access is unchecked by the wrapper.
func (v StringVector) Get(i int) string {
	return GoStringAndFree(royaleStringVectorGet(uintptr(v), int32(i)))
}

// Strings drains the vector into a Go slice.
func (v StringVector) Strings() []string {
	n := v.Len()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = v.Get(i)
	}
	return out
}

// Delete releases the vector and all its internal strings.
func (v StringVector) Delete() {
	if v != 0 {
		royaleDeleteStringVector(uintptr(v))
	}
}
