package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robert-malhotra/go-twreplay/replay"
)

// ErrUnexpectedTree is returned when a node is missing or has the wrong tag
// at a position the layout expects.
var ErrUnexpectedTree = errors.New("unexpected replay tree")

// Player is one army in the battle results.
type Player struct {
	Name     string
	RegionID string
}

// Summary is the battle information shown for a replay.
type Summary struct {
	Variant   string
	Layout    string
	Timestamp time.Time

	GameTitle        string
	GameName         string
	GameVersion      string
	BuildNumber      uint64
	ChangelistNumber uint64

	BattlefieldMapID    string
	BattlefieldMapIDSub string

	// Teams holds the players of each alliance in file order.
	Teams [][]Player
}

// Summarize extracts the summary of a decoded replay.
func Summarize(rep *replay.Replay) (*Summary, error) {
	t := &tree{}

	root := t.child(rep.Nodes, 0, "root")
	battle := t.child(root, 0, "BATTLE_REPLAY")
	empire := t.child(battle, 1, "EMPIRE_REPLAY")
	if t.err != nil {
		return nil, t.err
	}

	title, err := ParseTitle(empire.Text(0), rep.Header.Magic)
	if err != nil {
		return nil, err
	}
	layout, err := SelectLayout(rep.Header.Magic, title.Game)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Variant:          rep.Variant,
		Layout:           layout.Name,
		Timestamp:        rep.Header.Timestamp,
		GameTitle:        title.Raw,
		GameName:         title.Game,
		GameVersion:      title.Version,
		BuildNumber:      title.Build,
		ChangelistNumber: title.Changelist,
	}

	setup := t.child(battle, 2, "BATTLE_SETUP")
	info := t.child(setup, 0, "BATTLE_SETUP_INFO")
	if t.err != nil {
		return nil, t.err
	}
	idx, err := layout.MapIndex(len(info))
	if err != nil {
		return nil, err
	}
	s.BattlefieldMapID = text(info.At(idx))
	s.BattlefieldMapIDSub = mapSub(text(info.At(0)))

	results := t.child(battle, 4, "BATTLE_RESULTS")
	alliances := t.child(results, layout.Alliances, "ALLIANCES")
	if t.err != nil {
		return nil, t.err
	}
	for i := range alliances {
		alliance := t.child(alliances, i, "BATTLE_RESULT_ALLIANCE")
		armies := t.child(alliance, layout.Armies, "ARMIES")
		if t.err != nil {
			return nil, t.err
		}
		team := make([]Player, 0, len(armies))
		for j := range armies {
			army := t.child(armies, j, "BATTLE_RESULT_ARMY")
			p := Player{Name: text(army.At(1))}
			if layout.RegionInFaction {
				p.RegionID = text(t.child(army, 0, "BATTLE_SETUP_FACTION").At(0))
			} else {
				p.RegionID = text(army.At(0))
			}
			if t.err != nil {
				return nil, t.err
			}
			team = append(team, p)
		}
		s.Teams = append(s.Teams, team)
	}
	return s, nil
}

// tree navigates positional children and keeps the first error.
type tree struct {
	err error
}

// child returns the children of ns[i], which must be tagged tag. Record
// array children are flattened across elements.
func (t *tree) child(ns replay.Nodes, i int, tag string) replay.Nodes {
	if t.err != nil {
		return nil
	}
	n := ns.At(i)
	if n == nil {
		t.err = fmt.Errorf("%w: no node at position %d, want %s", ErrUnexpectedTree, i, tag)
		return nil
	}
	if got := replay.TagOf(n); got != tag {
		t.err = fmt.Errorf("%w: node at offset %d is %q, want %s", ErrUnexpectedTree, n.Offset(), got, tag)
		return nil
	}
	return replay.Children(n)
}

// text renders a scalar for display: strings as is, other values in their
// default format, and anything else as "".
func text(n replay.Node) string {
	s, ok := n.(*replay.Scalar)
	if !ok {
		return ""
	}
	if s.Value.Kind() == replay.KindString {
		return s.Value.Text()
	}
	return s.Value.String()
}

// mapSub returns the second to last "/" separated part of a map path, e.g.
// "sea_of_japan" for "battleterrain/presets/sea_of_japan/".
func mapSub(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
