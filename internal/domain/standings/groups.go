package standings

// Group labels.
const (
	GroupNorth = "North"
	GroupSouth = "South"
)

// Groups is the table split into the two league groups, each ranked from 1.
type Groups struct {
	North Table
	South Table
}

// Partition splits t by the North membership list. Any team not listed,
// including a name that matches no real team, falls into South.
func Partition(t Table, north []string) Groups {
	members := make(map[string]struct{}, len(north))
	for _, team := range north {
		members[team] = struct{}{}
	}

	var g Groups
	for _, r := range t.Rows {
		if _, ok := members[r.Team]; ok {
			r.Rank = len(g.North.Rows) + 1
			g.North.Rows = append(g.North.Rows, r)
			continue
		}
		r.Rank = len(g.South.Rows) + 1
		g.South.Rows = append(g.South.Rows, r)
	}
	return g
}

// GroupOf returns the group label a team lands in.
func GroupOf(team string, north []string) string {
	for _, n := range north {
		if n == team {
			return GroupNorth
		}
	}
	return GroupSouth
}
