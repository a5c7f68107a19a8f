package project

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-twreplay/replay"
)

// ErrUnsupportedLayout is returned when no layout matches a replay.
var ErrUnsupportedLayout = errors.New("unsupported replay layout")

// MapRule locates the battlefield map id in BATTLE_SETUP_INFO.
type MapRule struct {
	// InfoLen restricts the rule to BATTLE_SETUP_INFO records with this
	// many children. Zero matches any length.
	InfoLen int

	// Index is the position of the map id. When FromEnd is set it counts
	// back from the end, so 5 means len-5.
	Index   int
	FromEnd bool
}

// Layout describes where summary fields live for one game.
type Layout struct {
	Name     string
	Variants []replay.Magic

	// Game is the game name from the title. Empty matches any game.
	Game string

	// Alliances is the position of ALLIANCES in BATTLE_RESULTS.
	Alliances int

	// Armies is the position of ARMIES in BATTLE_RESULT_ALLIANCE.
	Armies int

	// Map rules are tried in order.
	Map []MapRule

	// RegionInFaction reports whether a player's region id is the first
	// field of a BATTLE_SETUP_FACTION record at army position 0, rather
	// than army position 0 itself.
	RegionInFaction bool
}

// Layouts lists the known layouts in selection order.
var Layouts = []Layout{
	{
		Name:      "empire",
		Variants:  []replay.Magic{replay.MagicABCE},
		Game:      "Empire",
		Alliances: 3,
		Armies:    16,
		Map:       []MapRule{{Index: 26}},
	},
	{
		Name:      "napoleon",
		Variants:  []replay.Magic{replay.MagicABCE},
		Game:      "Napoleon",
		Alliances: 3,
		Armies:    16,
		Map: []MapRule{
			{InfoLen: 33, Index: 5, FromEnd: true},
			{InfoLen: 34, Index: 6, FromEnd: true},
		},
	},
	{
		Name:            "shogun2",
		Variants:        []replay.Magic{replay.MagicABCF, replay.MagicABCA},
		Alliances:       4,
		Armies:          16,
		Map:             []MapRule{{Index: 5, FromEnd: true}},
		RegionInFaction: true,
	},
}

// SelectLayout returns the layout for a variant and game name.
func SelectLayout(m replay.Magic, game string) (*Layout, error) {
	for i := range Layouts {
		l := &Layouts[i]
		if !slices.Contains(l.Variants, m) {
			continue
		}
		if l.Game == "" || l.Game == game {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: variant %s, game %q", ErrUnsupportedLayout, m, game)
}

// MapIndex resolves the map id position for a BATTLE_SETUP_INFO record with
// infoLen children.
func (l *Layout) MapIndex(infoLen int) (int, error) {
	for _, r := range l.Map {
		if r.InfoLen != 0 && r.InfoLen != infoLen {
			continue
		}
		idx := r.Index
		if r.FromEnd {
			idx = infoLen - r.Index
		}
		if idx < 0 || idx >= infoLen {
			break
		}
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %s has no map rule for %d setup fields", ErrUnsupportedLayout, l.Name, infoLen)
}
