package parsers

import (
	"sort"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

type attributeData struct {
	backendName string
	names       map[string]string // lang -> name
	values      map[int]valueData
}

type valueData struct {
	backendName string
	names       map[string]string
}

// Attributes maps attribute and attribute-value ids to their
// language-specific names. Values are parsed in a second phase, one
// paginated pass per attribute id.
type Attributes struct {
	lang       string
	attributes map[int]*attributeData
}

// NewAttributes creates an attributes parser for one text language.
func NewAttributes(lang string) *Attributes {
	return &Attributes{
		lang:       lang,
		attributes: make(map[int]*attributeData),
	}
}

// Parse consumes one page of GET items/attributes.
func (a *Attributes) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("item attributes")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.Attribute](page)
	if err != nil {
		return err
	}
	for _, attr := range entries {
		data := &attributeData{
			backendName: attr.BackendName,
			names:       make(map[string]string),
			values:      make(map[int]valueData),
		}
		for _, name := range attr.Names {
			data.names[normalizeLang(name.Lang)] = name.Name
		}
		a.attributes[attr.ID] = data
	}
	return nil
}

// ParseValues consumes one page of GET items/attributes/{id}/values.
func (a *Attributes) ParseValues(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("item attribute values")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.AttributeValue](page)
	if err != nil {
		return err
	}
	for _, value := range entries {
		attr, ok := a.attributes[value.AttributeID]
		if !ok {
			continue
		}
		data := valueData{
			backendName: value.BackendName,
			names:       make(map[string]string),
		}
		for _, name := range value.Names {
			data.names[normalizeLang(name.Lang)] = name.Name
		}
		attr.values[value.ID] = data
	}
	return nil
}

// IDs returns all parsed attribute ids in ascending order, so the
// per-attribute value initialization is deterministic.
func (a *Attributes) IDs() []int {
	ids := make([]int, 0, len(a.attributes))
	for id := range a.attributes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Name returns the attribute's name in the configured language,
// falling back to the backend name.
func (a *Attributes) Name(attributeID int) string {
	attr, ok := a.attributes[attributeID]
	if !ok {
		return DefaultEmptyValue
	}
	if name, ok := attr.names[normalizeLang(a.lang)]; ok && name != "" {
		return name
	}
	return attr.backendName
}

// ValueExists reports whether the given attribute value was parsed.
func (a *Attributes) ValueExists(attributeID, valueID int) bool {
	attr, ok := a.attributes[attributeID]
	if !ok {
		return false
	}
	_, ok = attr.values[valueID]
	return ok
}

// ValueName returns the value's name in the configured language,
// falling back to the backend name.
func (a *Attributes) ValueName(attributeID, valueID int) string {
	attr, ok := a.attributes[attributeID]
	if !ok {
		return DefaultEmptyValue
	}
	value, ok := attr.values[valueID]
	if !ok {
		return DefaultEmptyValue
	}
	if name, ok := value.names[normalizeLang(a.lang)]; ok && name != "" {
		return name
	}
	return value.backendName
}
