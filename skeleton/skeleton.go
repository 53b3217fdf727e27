package skeleton

import (
	"fmt"
	"sort"
)

// New builds a Topology over n keypoints from the ordered edge list.
// Edge i is served by association channel i.
//
// Returns ErrNoKeypoints if n <= 0, ErrJointOutOfRange for an endpoint
// outside [0, n) and ErrSelfEdge for an edge with identical endpoints.
// Complexity: O(n + E log E).
func New(n int, edges []Edge) (*Topology, error) {
	if n <= 0 {
		return nil, ErrNoKeypoints
	}

	t := &Topology{
		n:         n,
		edges:     make([]Edge, len(edges)),
		bySource:  make([]map[int]Link, n),
		byTarget:  make([]map[int]Link, n),
		neighbors: make([][]int, n),
	}
	copy(t.edges, edges)
	for j := 0; j < n; j++ {
		t.bySource[j] = make(map[int]Link)
		t.byTarget[j] = make(map[int]Link)
	}

	for i, e := range edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return nil, fmt.Errorf("%w: edge %d (%d, %d) with %d keypoints", ErrJointOutOfRange, i, e.A, e.B, n)
		}
		if e.A == e.B {
			return nil, fmt.Errorf("%w: edge %d (%d, %d)", ErrSelfEdge, i, e.A, e.B)
		}
		// Growing out of A reads the channel forward, out of B backward.
		t.bySource[e.A][e.B] = Link{Channel: i, Forward: true}
		t.bySource[e.B][e.A] = Link{Channel: i, Forward: false}
		t.byTarget[e.B][e.A] = Link{Channel: i, Forward: true}
		t.byTarget[e.A][e.B] = Link{Channel: i, Forward: false}
	}

	for j := 0; j < n; j++ {
		targets := make([]int, 0, len(t.bySource[j]))
		for target := range t.bySource[j] {
			targets = append(targets, target)
		}
		sort.Ints(targets)
		t.neighbors[j] = targets
	}

	return t, nil
}

// FromOneBased builds a Topology from 1-based skeleton pairs as found in
// COCO-style dataset metadata.
func FromOneBased(n int, pairs [][2]int) (*Topology, error) {
	edges := make([]Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = Edge{A: p[0] - 1, B: p[1] - 1}
	}

	return New(n, edges)
}

// Keypoints returns the number of keypoint types.
func (t *Topology) Keypoints() int { return t.n }

// Edges returns a copy of the skeleton edges in channel order.
func (t *Topology) Edges() []Edge {
	out := make([]Edge, len(t.edges))
	copy(out, t.edges)

	return out
}

// NumChannels returns the number of association channels (one per edge).
func (t *Topology) NumChannels() int { return len(t.edges) }

// Link returns how to grow from source to target, and whether such an edge exists.
func (t *Topology) Link(source, target int) (Link, bool) {
	if source < 0 || source >= t.n {
		return Link{}, false
	}
	l, ok := t.bySource[source][target]

	return l, ok
}

// BySource returns a copy of the outgoing links of joint j.
// Unknown joints yield an empty map.
func (t *Topology) BySource(j int) map[int]Link {
	return t.copyOf(t.bySource, j)
}

// ByTarget returns a copy of the incoming links of joint j.
func (t *Topology) ByTarget(j int) map[int]Link {
	return t.copyOf(t.byTarget, j)
}

// Neighbors returns the targets reachable from j in ascending order.
// The returned slice must not be modified.
func (t *Topology) Neighbors(j int) []int {
	if j < 0 || j >= t.n {
		return nil
	}

	return t.neighbors[j]
}

func (t *Topology) copyOf(m []map[int]Link, j int) map[int]Link {
	out := make(map[int]Link)
	if j < 0 || j >= t.n {
		return out
	}
	for k, v := range m[j] {
		out[k] = v
	}

	return out
}
