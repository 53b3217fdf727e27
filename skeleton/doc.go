// Package skeleton builds the static adjacency used to grow pose instances
// along the edges of a keypoint skeleton.
//
// What
//
//   - A skeleton is an ordered list of undirected edges (a, b) over keypoint
//     indices. Edge i is backed by association channel i.
//   - Topology exposes two lookups keyed by joint index:
//   - BySource(j): target joint → Link{Channel, Forward} for growing out of j.
//   - ByTarget(j): the reverse mapping, used for completeness bookkeeping.
//   - Forward is true when j is the "a" endpoint of the channel, i.e. the
//     channel is queried in its stored direction.
//
// Determinism
//
//	Neighbors(j) returns targets in ascending joint order, so every consumer
//	that iterates outgoing edges visits them in a reproducible sequence.
//
// Conventions
//
//	COCO-style metadata lists skeleton pairs with 1-based keypoint indices.
//	FromOneBased converts such pairs; COCOSkeleton is already 0-based.
//
// Errors
//
//   - ErrNoKeypoints      if the keypoint count is not positive.
//   - ErrJointOutOfRange  if an edge references an index outside [0, n).
//   - ErrSelfEdge         if an edge connects a joint to itself.
//
// Complexity (K = keypoints, E = edges)
//
//   - Build:  O(K + E log E)
//   - Lookup: O(1) map access per (source, target) pair.
//
// A Topology is read-only after construction and safe for concurrent reads.
package skeleton
