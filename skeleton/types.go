package skeleton

import "errors"

// Sentinel errors returned by New and FromOneBased.
var (
	// ErrNoKeypoints indicates a non-positive keypoint count.
	ErrNoKeypoints = errors.New("skeleton: keypoint count must be positive")

	// ErrJointOutOfRange indicates an edge references a joint index outside [0, n).
	ErrJointOutOfRange = errors.New("skeleton: joint index out of range")

	// ErrSelfEdge indicates an edge whose two endpoints are the same joint.
	ErrSelfEdge = errors.New("skeleton: edge connects a joint to itself")
)

// Edge is an undirected skeleton connection between keypoints A and B.
// The position of the edge in the skeleton is its association channel index.
type Edge struct {
	A, B int
}

// Link describes how to reach a neighbor joint through an association channel.
type Link struct {
	// Channel is the index of the edge (and association channel) in the skeleton.
	Channel int

	// Forward is true when the source joint is the A endpoint of the edge,
	// meaning the channel is read in its stored direction.
	Forward bool
}

// Topology is the immutable adjacency derived from a skeleton.
type Topology struct {
	n        int
	edges    []Edge
	bySource []map[int]Link
	byTarget []map[int]Link

	// neighbors[j] holds the keys of bySource[j] in ascending order.
	neighbors [][]int
}
