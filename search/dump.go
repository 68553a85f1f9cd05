package search

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// DumpDOT renders the arena's live tree as a Graphviz DOT document,
// rooted at root, for offline diagnostics — never consulted by the search
// itself. best, when non-nil, marks every node on that chain so a viewer
// can pick the winning line out of a wide tree at a glance.
func DumpDOT(arena *Arena, root NodeID, best []NodeID) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("search"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	onBest := make(map[NodeID]bool, len(best))
	for _, id := range best {
		onBest[id] = true
	}

	var walk func(id NodeID) error
	walk = func(id NodeID) error {
		name := fmt.Sprintf("n%d", id)
		attrs := map[string]string{
			"label": fmt.Sprintf("\"id=%d score=%d depth=%d\"", id, arena.Score(id), arena.Depth(id)),
		}
		if onBest[id] {
			attrs["color"] = "red"
			attrs["penwidth"] = "2"
		}
		if err := g.AddNode("search", name, attrs); err != nil {
			return err
		}
		for _, child := range arena.Children(id) {
			if err := walk(child); err != nil {
				return err
			}
			edgeAttrs := map[string]string{}
			if onBest[id] && onBest[child] {
				edgeAttrs["color"] = "red"
			}
			if err := g.AddEdge(name, fmt.Sprintf("n%d", child), true, edgeAttrs); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return "", err
	}
	return g.String(), nil
}
