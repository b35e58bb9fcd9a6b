package parsers

import (
	"github.com/catalogport/plenty-export/pkg/plenty"
)

type propertyGroupData struct {
	backendName string
	names       map[string]string
}

// PropertyGroups maps property-group ids to their language-specific
// name, falling back to the backend name.
type PropertyGroups struct {
	lang   string
	groups map[int]propertyGroupData
}

// NewPropertyGroups creates a property-group parser for one language.
func NewPropertyGroups(lang string) *PropertyGroups {
	return &PropertyGroups{
		lang:   lang,
		groups: make(map[int]propertyGroupData),
	}
}

// Parse consumes one page of GET items/property_groups.
func (p *PropertyGroups) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("property groups")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.PropertyGroup](page)
	if err != nil {
		return err
	}
	for _, group := range entries {
		data := propertyGroupData{
			backendName: group.BackendName,
			names:       make(map[string]string),
		}
		for _, name := range group.Names {
			data.names[normalizeLang(name.Lang)] = name.Name
		}
		p.groups[group.ID] = data
	}
	return nil
}

// Name returns the group's name in the configured language, falling
// back to the backend name, or an empty value for unknown ids.
func (p *PropertyGroups) Name(groupID int) string {
	group, ok := p.groups[groupID]
	if !ok {
		return DefaultEmptyValue
	}
	if name, ok := group.names[normalizeLang(p.lang)]; ok && name != "" {
		return name
	}
	return group.backendName
}
