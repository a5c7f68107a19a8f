package project

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/robert-malhotra/go-twreplay/replay"
)

// ErrUnrecognizedTitle is returned when a game title string does not match
// the format used by its variant.
var ErrUnrecognizedTitle = errors.New("unrecognized game title")

// Title is a parsed game title string such as
// "Shogun2:TotalWar(1.0)(Build(3817) Final) Changelist(289470)".
type Title struct {
	Raw        string
	Game       string
	Version    string
	Build      uint64
	Changelist uint64
}

var (
	// ABCF and ABCA.
	compactTitle = regexp.MustCompile(`^([a-zA-Z\d]*):TotalWar\(([0-9.]*)\)\(.*Build\(([0-9]*)\).*\)\sChangelist\(([0-9]*)\)$`)
	// ABCE.
	spacedTitle = regexp.MustCompile(`^([a-zA-Z\d]*):\sTotal\sWar\s([0-9.]*)\s\(.*Build\s([0-9]*).*\)\sChangelist:\s([0-9]*)$`)
)

// ParseTitle parses a game title in the format used by variant m.
func ParseTitle(s string, m replay.Magic) (Title, error) {
	var re *regexp.Regexp
	switch m {
	case replay.MagicABCF, replay.MagicABCA:
		re = compactTitle
	case replay.MagicABCE:
		re = spacedTitle
	default:
		return Title{}, fmt.Errorf("%w: variant %s has no title format", ErrUnrecognizedTitle, m)
	}

	match := re.FindStringSubmatch(s)
	if match == nil {
		return Title{}, fmt.Errorf("%w: %q", ErrUnrecognizedTitle, s)
	}
	t := Title{Raw: s, Game: match[1], Version: match[2]}

	var err error
	if t.Build, err = parseNumber(match[3]); err != nil {
		return Title{}, fmt.Errorf("%w: build number: %w", ErrUnrecognizedTitle, err)
	}
	if t.Changelist, err = parseNumber(match[4]); err != nil {
		return Title{}, fmt.Errorf("%w: changelist: %w", ErrUnrecognizedTitle, err)
	}
	return t, nil
}

// parseNumber parses a decimal field that may be empty.
func parseNumber(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
