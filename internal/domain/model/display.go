package model

import "time"

// Display is the platform-neutral status card rendered by the chat publishers.
type Display struct {
	AuthorName    string
	AuthorIconURL string
	Title         string
	Color         int
	Timestamp     time.Time
	Online        bool

	// Fields are the scalar status lines, in display order.
	Fields []Field

	// Sections hold the player roster grouped by organization.
	// Empty when nobody is playing.
	Sections []Section
}

// Field is one captioned scalar value of the status card.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Section is a group of players sharing an organization.
type Section struct {
	Name    string
	Members []Member
}

// Member is a single colorized roster line.
type Member struct {
	Name  string
	Color string
}

// MemberNames returns the names of the section's members in order.
func (s Section) MemberNames() []string {
	names := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		names = append(names, m.Name)
	}
	return names
}
