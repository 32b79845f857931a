package model

// OrgMapping associates a name substring with a display group.
// Priority breaks ties when a player name contains several tags;
// Color is an ANSI SGR parameter list such as "0;31".
type OrgMapping struct {
	Tag      string
	Name     string
	Priority int
	Color    string
}
