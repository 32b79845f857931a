package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/armastatus/internal/domain/model"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	red := model.OrgMapping{Tag: "TAG1", Name: "Red Team", Priority: 1, Color: "0;31"}
	blue := model.OrgMapping{Tag: "[B]", Name: "Blue Team", Priority: 5, Color: "0;34"}
	green := model.OrgMapping{Tag: "TAG1", Name: "Green Team", Priority: 1, Color: "0;32"}

	tests := []struct {
		name     string
		player   string
		mappings []model.OrgMapping
		want     string // empty means no match
	}{
		{name: "no mappings", player: "Bob", mappings: nil},
		{name: "no tag matches", player: "NoTag_Sam", mappings: []model.OrgMapping{red, blue}},
		{name: "single match", player: "TAG1_Bob", mappings: []model.OrgMapping{red, blue}, want: "Red Team"},
		{name: "higher priority wins listed last", player: "[B]TAG1_Bob", mappings: []model.OrgMapping{red, blue}, want: "Blue Team"},
		{name: "higher priority wins listed first", player: "[B]TAG1_Bob", mappings: []model.OrgMapping{blue, red}, want: "Blue Team"},
		{name: "equal priority keeps first seen", player: "TAG1_Bob", mappings: []model.OrgMapping{red, green}, want: "Red Team"},
		{name: "equal priority keeps first seen reversed", player: "TAG1_Bob", mappings: []model.OrgMapping{green, red}, want: "Green Team"},
		{name: "match is case sensitive", player: "tag1_bob", mappings: []model.OrgMapping{red}},
		{name: "empty tag matches everything", player: "Anyone", mappings: []model.OrgMapping{{Tag: "", Name: "All"}}, want: "All"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Match(tt.player, tt.mappings).Get()
			if tt.want == "" {
				assert.False(t, ok, "expected no match, got %q", got.Name)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestMatch_PicksStrictlyGreatestPriority(t *testing.T) {
	t.Parallel()

	mappings := []model.OrgMapping{
		{Tag: "A", Name: "p1", Priority: 1},
		{Tag: "B", Name: "p5", Priority: 5},
		{Tag: "C", Name: "p3", Priority: 3},
		{Tag: "Z", Name: "p9-not-matching", Priority: 9},
		{Tag: "AB", Name: "p5-later", Priority: 5},
	}

	got, ok := Match("ABC", mappings).Get()
	require.True(t, ok)
	assert.Equal(t, "p5", got.Name)
}

func TestGroup(t *testing.T) {
	t.Parallel()

	mappings := []model.OrgMapping{
		{Tag: "TAG1", Name: "Red Team", Priority: 1, Color: "0;31"},
		{Tag: "[B]", Name: "Blue Team", Priority: 1},
	}
	players := []model.Player{
		{Name: "NoTag_Sam"},
		{Name: "TAG1_Bob"},
		{Name: "[B]Ann"},
		{Name: "TAG1_Eve"},
		{Name: "Lonely"},
	}

	sections := Group(players, mappings, "Unknown")
	require.Len(t, sections, 3)

	assert.Equal(t, "Unknown", sections[0].Name)
	assert.Equal(t, []string{"NoTag_Sam", "Lonely"}, sections[0].MemberNames())
	assert.Equal(t, NeutralColor, sections[0].Members[0].Color)

	assert.Equal(t, "Red Team", sections[1].Name)
	assert.Equal(t, []string{"TAG1_Bob", "TAG1_Eve"}, sections[1].MemberNames())
	assert.Equal(t, "0;31", sections[1].Members[1].Color)

	assert.Equal(t, "Blue Team", sections[2].Name)
	assert.Equal(t, NeutralColor, sections[2].Members[0].Color, "mapping without color falls back to neutral")
}

func TestGroup_NoPlayers(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Group(nil, nil, "Unknown"))
}
