package erp

// Record is a field-keyed record as returned by the backend. Absent and
// false-valued fields are indistinguishable on the wire: the backend
// serializes empty relational fields as boolean false.
type Record map[string]any

// Ref is a resolved many2one reference: the target id and its display name.
type Ref struct {
	ID   int64
	Name string
}

// Str returns the string value of a field, or "" when the field is absent
// or not a string.
func (r Record) Str(field string) string {
	s, _ := r[field].(string)
	return s
}

// Float returns the numeric value of a field, or 0 when absent.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Int returns the integer value of a field, or 0 when absent. JSON
// decoding yields float64 for all numbers, so that is the common case.
func (r Record) Int(field string) int64 {
	switch v := r[field].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Ref decodes a many2one field, serialized as a two-element [id, name]
// tuple. The second return is false when the field is empty or malformed.
func (r Record) Ref(field string) (Ref, bool) {
	pair, ok := r[field].([]any)
	if !ok || len(pair) != 2 {
		return Ref{}, false
	}
	var ref Ref
	switch id := pair[0].(type) {
	case float64:
		ref.ID = int64(id)
	case int64:
		ref.ID = id
	case int:
		ref.ID = int64(id)
	default:
		return Ref{}, false
	}
	ref.Name, _ = pair[1].(string)
	return ref, true
}
