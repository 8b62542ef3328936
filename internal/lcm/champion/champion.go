// Package champion maps champion ids reported by the client to display names
// and to the binding options a profile can hold.
package champion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Binding labels that are not champions.
const (
	Disabled = "Disabled"
	Default  = "Default"
)

// DefaultID is the binding value of the fallback profile.
const DefaultID uint32 = 0

type entry struct {
	id   uint32
	name string
}

// Name returns the display name of a champion id.
func Name(id uint32) (string, bool) {
	for _, e := range list {
		if e.id == id {
			return e.name, true
		}
	}
	return "", false
}

// ID returns the id of a champion name. Matching ignores case.
func ID(name string) (uint32, bool) {
	for _, e := range list {
		if strings.EqualFold(e.name, name) {
			return e.id, true
		}
	}
	return 0, false
}

// Options lists every binding option: Disabled, Default, then champions by name.
func Options() []string {
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return append([]string{Disabled, Default}, names...)
}

// ParseOption converts a binding option to a binding. Disabled yields nil,
// Default yields DefaultID, anything else must be a champion name or a
// positive numeric id.
func ParseOption(option string) (*uint32, error) {
	option = strings.TrimSpace(option)
	switch {
	case strings.EqualFold(option, Disabled):
		return nil, nil
	case strings.EqualFold(option, Default):
		return Ptr(DefaultID), nil
	}
	if id, ok := ID(option); ok {
		return Ptr(id), nil
	}
	if n, err := strconv.ParseUint(option, 10, 32); err == nil && n > 0 {
		return Ptr(uint32(n)), nil
	}
	return nil, fmt.Errorf("unknown champion %q", option)
}

// Label renders a binding the way it is offered in Options.
func Label(binding *uint32) string {
	switch {
	case binding == nil:
		return Disabled
	case *binding == DefaultID:
		return Default
	}
	if name, ok := Name(*binding); ok {
		return name
	}
	return fmt.Sprintf("Champion %d", *binding)
}

// Ptr returns a pointer to id.
func Ptr(id uint32) *uint32 {
	return &id
}
