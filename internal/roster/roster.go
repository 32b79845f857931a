// Package roster assigns players to organizations by name tag and groups
// them for display.
package roster

import (
	"strings"

	"github.com/samber/mo"

	"github.com/edgard/armastatus/internal/domain/model"
)

// NeutralColor is the ANSI color used for players without an organization.
const NeutralColor = "0;37"

// Match returns the highest-priority mapping whose tag is a substring of name.
// Among equal priorities the first mapping in list order wins.
func Match(name string, mappings []model.OrgMapping) mo.Option[model.OrgMapping] {
	best := mo.None[model.OrgMapping]()
	for _, m := range mappings {
		if !strings.Contains(name, m.Tag) {
			continue
		}
		if cur, ok := best.Get(); !ok || m.Priority > cur.Priority {
			best = mo.Some(m)
		}
	}
	return best
}

// Group assigns every player an organization and groups them by organization
// name, keeping the order in which each group is first seen. Players without a
// match go to the unknownName group with NeutralColor.
func Group(players []model.Player, mappings []model.OrgMapping, unknownName string) []model.Section {
	var sections []model.Section
	index := make(map[string]int)

	for _, p := range players {
		groupName, color := unknownName, NeutralColor
		if org, ok := Match(p.Name, mappings).Get(); ok {
			groupName = org.Name
			if org.Color != "" {
				color = org.Color
			}
		}

		i, seen := index[groupName]
		if !seen {
			i = len(sections)
			index[groupName] = i
			sections = append(sections, model.Section{Name: groupName})
		}
		sections[i].Members = append(sections[i].Members, model.Member{Name: p.Name, Color: color})
	}

	return sections
}
