package replay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPathNotFound is returned by Find when a path does not name a node.
var ErrPathNotFound = errors.New("path not found")

// Paths address nodes by walking down from a list of siblings. Segments are
// separated by "/" and are one of:
//
//   - "TAG" selects the first record or record array tagged TAG.
//   - "TAG[k]" selects the k-th (0-based) sibling tagged TAG.
//   - "n" selects the n-th sibling by position. Below a record array it
//     selects element n instead, whose children are the next siblings.
//
// For example "root/BATTLE_REPLAY/BATTLE_RESULTS/ALLIANCES/1" is the second
// element of the ALLIANCES record array.

// SplitPath splits a path into its segments. Leading and trailing slashes
// and empty segments are dropped.
//
// Examples:
//   - "" -> []string{}
//   - "/BATTLE_REPLAY/" -> []string{"BATTLE_REPLAY"}
//   - "A//B" -> []string{"A", "B"}
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path to its segments joined by "/".
func CleanPath(path string) string {
	return strings.Join(SplitPath(path), "/")
}

// JoinPath appends segment to path.
func JoinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "/" + segment
}

// parseSegment splits "TAG[k]" into its tag and ordinal. A bare tag has
// ordinal 0. A purely numeric segment returns index >= 0 and tag "".
func parseSegment(seg string) (tag string, ordinal int, index int, err error) {
	if n, err := strconv.Atoi(seg); err == nil {
		if n < 0 {
			return "", 0, -1, fmt.Errorf("negative index in segment %q", seg)
		}
		return "", 0, n, nil
	}
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, 0, -1, nil
	}
	if !strings.HasSuffix(seg, "]") || open == 0 {
		return "", 0, -1, fmt.Errorf("malformed segment %q", seg)
	}
	k, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil || k < 0 {
		return "", 0, -1, fmt.Errorf("malformed ordinal in segment %q", seg)
	}
	return seg[:open], k, -1, nil
}

// nthTagged returns the k-th node in ns tagged tag.
func nthTagged(ns Nodes, tag string, k int) Node {
	for _, n := range ns {
		if TagOf(n) == tag {
			if k == 0 {
				return n
			}
			k--
		}
	}
	return nil
}

// resolve walks path from ns. It returns the node reached and, when the last
// segment selects a record array element, that element instead.
func resolve(ns Nodes, path string) (Node, *Element, error) {
	var (
		node Node
		elem *Element
	)
	cur := ns
	segs := SplitPath(path)
	for i, seg := range segs {
		tag, ordinal, index, err := parseSegment(seg)
		if err != nil {
			return nil, nil, err
		}
		at := strings.Join(segs[:i+1], "/")

		if ra, ok := node.(*RecordArray); ok && elem == nil {
			if index < 0 || index >= len(ra.Elements) {
				return nil, nil, fmt.Errorf("%w: %s: %s has %d elements", ErrPathNotFound, at, ra.Tag, len(ra.Elements))
			}
			elem = &ra.Elements[index]
			cur = elem.Children
			continue
		}

		if index >= 0 {
			node = cur.At(index)
		} else {
			node = nthTagged(cur, tag, ordinal)
		}
		if node == nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrPathNotFound, at)
		}
		elem = nil
		cur = nil
		if r, ok := node.(*Record); ok {
			cur = r.Children
		}
	}
	return node, elem, nil
}

// Find returns the node named by path, relative to ns. A path ending on a
// record array element returns ErrPathNotFound; use FindChildren for those.
func Find(ns Nodes, path string) (Node, error) {
	node, elem, err := resolve(ns, path)
	if err != nil {
		return nil, err
	}
	if elem != nil {
		return nil, fmt.Errorf("%w: %s names a record array element", ErrPathNotFound, CleanPath(path))
	}
	if node == nil {
		return nil, fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	return node, nil
}

// FindChildren returns the children below path: the children of a record or
// element, or the flattened children of a record array. An empty path
// returns ns itself.
func FindChildren(ns Nodes, path string) (Nodes, error) {
	node, elem, err := resolve(ns, path)
	if err != nil {
		return nil, err
	}
	switch {
	case elem != nil:
		return elem.Children, nil
	case node == nil:
		return ns, nil
	}
	return Children(node), nil
}
