package profile

import "github.com/OpenGG/league-config-manager/internal/lcm/champion"

// Profile is a saved copy of the active game settings.
type Profile struct {
	// Name is unique and doubles as the directory name.
	Name string
	// Champion is nil when auto-swap is disabled, champion.DefaultID for the
	// fallback profile, or a champion id.
	Champion *uint32
	// LastLink is the most recent share link, if any.
	LastLink string

	// Editing and EditName hold an in-progress rename. They are never persisted.
	Editing  bool
	EditName string
}

// BoundTo reports whether the profile is bound to id.
func (p *Profile) BoundTo(id uint32) bool {
	return p.Champion != nil && *p.Champion == id
}

// IsDefault reports whether the profile is the fallback profile.
func (p *Profile) IsDefault() bool {
	return p.BoundTo(champion.DefaultID)
}

// BindingLabel renders the binding as a champion option.
func (p *Profile) BindingLabel() string {
	return champion.Label(p.Champion)
}

// StartEdit begins a rename seeded with the current name.
func (p *Profile) StartEdit() {
	p.EditName = p.Name
	p.Editing = true
}

// SetEditName updates the pending rename buffer.
func (p *Profile) SetEditName(name string) {
	p.EditName = name
}

// ResetEdit abandons a pending rename.
func (p *Profile) ResetEdit() {
	p.Editing = false
	p.EditName = ""
}

// Find returns the profile with the exact name.
func Find(profiles []*Profile, name string) *Profile {
	for _, p := range profiles {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Index returns the position of the profile with the exact name, or -1.
func Index(profiles []*Profile, name string) int {
	for i, p := range profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}
