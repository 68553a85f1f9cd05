// Package search implements the AI's tree search: an arena-allocated
// SearchNode tree, the OffspringGenerator that expands one node into its
// legal children, and the NodeCalculator that drives a bounded,
// iterative-deepening, multi-worker search across them (spec §4.5, §4.6).
package search

import (
	"sync"

	"github.com/stacktetris/tetrisai/state"
)

// NodeID is an index-based handle into an Arena, mirroring the teacher's
// Naughty named-int-as-pointer idiom (mcts/naughty.go) rather than heap
// pointers per node.
type NodeID int32

// NilNode is the zero-value-safe "no node" handle.
const NilNode NodeID = -1

// Status tracks a node's membership in the live tree, analogous to
// mcts.Status (Active/Pruned), generalized with an extra terminal tag.
type Status uint8

const (
	StatusActive Status = iota
	StatusPruned
	StatusInvalid
)

// node is one entry in an Arena. Its mutable fields (score, status) are
// guarded by their own mutex exactly as mcts.Node guards qsa/visits/status,
// so that concurrent offspring-generation tasks never need to take the
// arena-wide lock just to read or update a single node's score.
type node struct {
	mu sync.Mutex

	state  state.GameState
	parent NodeID
	depth  int
	score  int32
	status Status
}

func (n *node) Score() int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.score
}

func (n *node) setScore(v int32) {
	n.mu.Lock()
	n.score = v
	n.mu.Unlock()
}

func (n *node) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

func (n *node) setStatus(s Status) {
	n.mu.Lock()
	n.status = s
	n.mu.Unlock()
}

// Arena owns the node tree for the lifetime of one NodeCalculator run. It is
// a rooted tree: parents hold children, children keep only the
// non-owning NodeID back-link in node.parent (spec §3, "Ownership").
// Grounded directly on mcts.MCTS's nodes/children/freelist/alloc/free.
//
// nodes holds *node, not node: appending to a value slice of mutex-bearing
// structs can reallocate and byte-copy a node's sync.Mutex while another
// goroutine holds it locked. A slice of pointers only ever copies the
// pointer on growth, so a NodeID's target address is stable for its entire
// lifetime in the arena regardless of how many siblings get allocated later.
type Arena struct {
	mu       sync.RWMutex
	nodes    []*node
	children [][]NodeID
	freelist []NodeID
}

// NewArena returns an arena whose sole node is root, at depth 0.
func NewArena(root state.GameState) *Arena {
	a := &Arena{}
	a.mu.Lock()
	id := a.allocLocked()
	n := a.nodes[id]
	n.state = root
	n.parent = NilNode
	n.depth = 0
	n.status = StatusActive
	a.mu.Unlock()
	return a
}

// Root returns the arena's root node id; it is always 0.
func (a *Arena) Root() NodeID { return 0 }

// allocLocked reserves a node slot. Callers must hold a.mu for writing:
// growing a.nodes via append is not safe to race with any concurrent index
// read, so every mutation of the arena's shape happens under one lock
// rather than under the per-node mutex alone.
func (a *Arena) allocLocked() NodeID {
	if l := len(a.freelist); l > 0 {
		id := a.freelist[l-1]
		a.freelist = a.freelist[:l-1]
		a.nodes[id] = &node{}
		a.children[id] = a.children[id][:0]
		return id
	}
	a.nodes = append(a.nodes, &node{})
	a.children = append(a.children, nil)
	return NodeID(len(a.nodes) - 1)
}

// State returns the GameState stored at id.
func (a *Arena) State(id NodeID) state.GameState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.nodes[id].state
}

// Parent returns id's parent, or NilNode for the root.
func (a *Arena) Parent(id NodeID) NodeID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.nodes[id].parent
}

// Depth returns id's depth, root = 0.
func (a *Arena) Depth(id NodeID) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.nodes[id].depth
}

// Score returns id's cached evaluator score.
func (a *Arena) Score(id NodeID) int32 {
	a.mu.RLock()
	n := a.nodes[id]
	a.mu.RUnlock()
	return n.Score()
}

// Children returns a copy of id's ordered child list.
func (a *Arena) Children(id NodeID) []NodeID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	kids := a.children[id]
	out := make([]NodeID, len(kids))
	copy(out, kids)
	return out
}

// AddChild allocates a new node for child's state at parent+1 depth, records
// the caller-supplied score on it, inserts it to parent's ordered child set (by descending score,
// identifier tie-break), and returns its id.
func (a *Arena) AddChild(parent NodeID, child state.GameState, score int32) NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.allocLocked()
	n := a.nodes[id]
	n.state = child
	n.parent = parent
	n.depth = a.nodes[parent].depth + 1
	n.status = StatusActive
	n.score = score

	kids := append(a.children[parent], id)
	// Insertion sort into descending-score order; ties break by the lower
	// NodeID (earlier-allocated, i.e. the lower placement identifier seen
	// first by the generator), matching spec §4.5's tie-break rule.
	for i := len(kids) - 1; i > 0; i-- {
		si, sj := a.nodes[kids[i]].score, a.nodes[kids[i-1]].score
		if si > sj || (si == sj && kids[i] < kids[i-1]) {
			kids[i], kids[i-1] = kids[i-1], kids[i]
		} else {
			break
		}
	}
	a.children[parent] = kids
	return id
}

// Prune marks id and every descendant as pruned/invalid and returns their
// ids to the freelist, reclaiming memory. Grounded on
// mcts.MCTS.cleanup/cleanChildren.
func (a *Arena) Prune(id NodeID) {
	for _, kid := range a.Children(id) {
		a.Prune(kid)
	}
	a.mu.Lock()
	a.nodes[id].setStatus(StatusInvalid)
	a.children[id] = a.children[id][:0]
	a.freelist = append(a.freelist, id)
	a.mu.Unlock()
}

// KeepOnly prunes every child of parent except keep, used when carving the
// best path so memory for abandoned branches is reclaimed (spec §4.6 step 5).
func (a *Arena) KeepOnly(parent, keep NodeID) {
	for _, kid := range a.Children(parent) {
		if kid != keep {
			a.Prune(kid)
		}
	}
	a.mu.Lock()
	a.children[parent] = []NodeID{keep}
	a.mu.Unlock()
}

// Path returns the chain of GameStates from id's depth-1 ancestor (the root
// itself excluded) down to id, inclusive — a flat copy of values, never references into the arena
// (spec §3, "the published result is a flat copy of GameState values").
func (a *Arena) Path(id NodeID) []state.GameState {
	var chain []NodeID
	for cur := id; cur != NilNode && cur != a.Root(); cur = a.Parent(cur) {
		chain = append(chain, cur)
	}
	out := make([]state.GameState, len(chain))
	for i, nid := range chain {
		out[len(chain)-1-i] = a.State(nid)
	}
	return out
}

// Nodes returns the number of allocated (live or freed-but-slotted) entries,
// used by DumpDOT and tests.
func (a *Arena) Nodes() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.nodes)
}
