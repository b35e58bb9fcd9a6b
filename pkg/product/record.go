// Package product folds one raw product record plus its variation
// stream into a single normalized export record.
package product

// Record is the per-product output: scalar or list fields, an ordered
// de-duplicated attributes mapping, and an ordered de-duplicated
// identifier list exposed as the ordernumber field.
type Record struct {
	fields      map[string]any
	attributes  map[string][]string
	attrOrder   []string
	identifiers []string
}

// NewRecord creates an empty export record.
func NewRecord() *Record {
	return &Record{
		fields:     make(map[string]any),
		attributes: make(map[string][]string),
	}
}

// SetField stores a scalar field, or appends to a list field when
// asList is set.
func (r *Record) SetField(key string, value any, asList bool) {
	if !asList {
		r.fields[key] = value
		return
	}
	list, _ := r.fields[key].([]any)
	r.fields[key] = append(list, value)
}

// GetField returns the stored field value, or an empty string.
func (r *Record) GetField(key string) any {
	if value, ok := r.fields[key]; ok {
		return value
	}
	return ""
}

// SetAttribute appends value under the named attribute, preserving
// first-occurrence order and dropping duplicates.
func (r *Record) SetAttribute(name, value string) {
	values, ok := r.attributes[name]
	if !ok {
		r.attrOrder = append(r.attrOrder, name)
	}
	for _, existing := range values {
		if existing == value {
			return
		}
	}
	r.attributes[name] = append(values, value)
}

// Attribute returns the values collected under name, in insertion order.
func (r *Record) Attribute(name string) []string {
	return r.attributes[name]
}

// AddIdentifier appends an identifier to the ordernumber list unless it
// is empty or already present. Comparison is case-sensitive.
func (r *Record) AddIdentifier(identifier string) {
	if identifier == "" {
		return
	}
	for _, existing := range r.identifiers {
		if existing == identifier {
			return
		}
	}
	r.identifiers = append(r.identifiers, identifier)
}

// Identifiers returns the collected identifiers in insertion order.
func (r *Record) Identifiers() []string {
	return r.identifiers
}

// Results flattens the record into one map: the plain fields plus the
// ordernumber list and the attributes sub-mapping.
func (r *Record) Results() map[string]any {
	out := make(map[string]any, len(r.fields)+2)
	for key, value := range r.fields {
		out[key] = value
	}
	out["ordernumber"] = r.identifiers

	attributes := make(map[string][]string, len(r.attributes))
	for _, name := range r.attrOrder {
		attributes[name] = r.attributes[name]
	}
	out["attributes"] = attributes
	return out
}
