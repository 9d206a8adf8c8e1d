package solver

import "strings"

// defaultTopologyKeywords is the fallback keyword table used to resolve
// a zone's topology key from its display name when the zone does not
// carry an explicit TopologyKey override. First match wins, keys are
// checked in this order.
var defaultTopologyKeywords = []struct {
	key      string
	keywords []string
}{
	{"S1", []string{"BOISKO"}},
	{"S2", []string{"GIMN"}},
	{"S3", []string{"41", "42"}},
	{"S4", []string{"PIWNICA", "SZATNI"}},
	{"S5", []string{"13", "14"}},
	{"S6", []string{"I PI", "1. PI"}},
	{"S7", []string{"II PI", "2. PI"}},
}

// ResolveTopologyKey returns z's topology key: the explicit override if
// set, otherwise the first keyword that substring-matches the zone's
// display name (case-insensitive). Returns "" if nothing matches.
func ResolveTopologyKey(z Zone) string {
	if z.TopologyKey != "" {
		return z.TopologyKey
	}
	upper := strings.ToUpper(z.Name)
	for _, entry := range defaultTopologyKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(upper, kw) {
				return entry.key
			}
		}
	}
	return ""
}

// LocationScore scores how suitable teacher t is for zone z at break b
// on day d, combining preference, topology match and neighbor-zone
// fallback. Output is in 0..2000.
func LocationScore(cfg *Config, t *TeacherProfile, d Day, b Break, z Zone) int {
	if _, preferred := t.Preferences.PreferredZones[z.ID]; preferred {
		return 2000
	}

	targetKey := ResolveTopologyKey(z)
	if targetKey == "" {
		return 50
	}

	rooms := currentRooms(t, d, b)
	if len(rooms) == 0 {
		return 50
	}

	inSet := func(set []string, room string) bool {
		for _, r := range set {
			if r == room {
				return true
			}
		}
		return false
	}

	for _, room := range rooms {
		if inSet(cfg.Topology[targetKey], room) {
			return 100
		}
	}

	best := -1
	for _, room := range rooms {
		for i, n := range cfg.Proximity[targetKey] {
			if !inSet(cfg.Topology[n], room) {
				continue
			}
			candidate := 80 - 15*i
			if candidate > best {
				best = candidate
			}
		}
	}
	if best < 0 {
		return 10
	}
	return best
}
