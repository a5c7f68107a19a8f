package replay

import (
	"errors"
	"strconv"
)

// SkipChildren can be returned from a WalkFunc to skip the children of the
// node being visited. It is never returned by Walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each node during traversal. path is the node's
// path in the syntax accepted by Find.
// Return nil to continue walking, SkipChildren to prune, or any other error
// to stop.
type WalkFunc func(path string, n Node) error

// Walk visits every node below ns depth first, in file order.
//
// Example:
//
//	replay.Walk(rep.Nodes, func(path string, n replay.Node) error {
//	    if s, ok := n.(*replay.Scalar); ok {
//	        fmt.Println(path, "=", s.Value)
//	    }
//	    return nil
//	})
func Walk(ns Nodes, fn WalkFunc) error {
	err := walkNodes("", ns, fn)
	if err == SkipChildren {
		return nil
	}
	return err
}

// walkNodes visits a sibling list. Records are named by tag, repeated tags
// get an ordinal, everything else is named by position.
func walkNodes(parent string, ns Nodes, fn WalkFunc) error {
	seen := make(map[string]int)
	for i, n := range ns {
		seg := strconv.Itoa(i)
		if tag := TagOf(n); tag != "" {
			k := seen[tag]
			seen[tag] = k + 1
			seg = tag
			if k > 0 {
				seg = tag + "[" + strconv.Itoa(k) + "]"
			}
		}
		if err := walkNode(JoinPath(parent, seg), n, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkNode(path string, n Node, fn WalkFunc) error {
	err := fn(path, n)
	if err == SkipChildren {
		return nil
	}
	if err != nil {
		return err
	}

	switch n := n.(type) {
	case *Record:
		return walkNodes(path, n.Children, fn)
	case *RecordArray:
		for i, e := range n.Elements {
			if err := walkNodes(JoinPath(path, strconv.Itoa(i)), e.Children, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
