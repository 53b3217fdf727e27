// Package decoder assembles multi-person poses from part confidence and part
// association fields by greedy best-first growth along a keypoint skeleton.
//
// What
//
//   - Seeds are taken in descending confidence. A seed whose location is
//     already covered by an earlier instance of the same joint type is
//     suppressed through an occupancy grid.
//   - Every surviving seed starts a new Annotation that is grown along the
//     skeleton, always committing the best connection reachable from any
//     filled joint, until no connection is left.
//   - An optional completion pass regrows the annotations against a very
//     permissive association floor and flood-fills the rest of the skeleton
//     with placeholder positions.
//   - An optional InstanceNMS prunes duplicates at the end.
//
// Connection value
//
//	For a filled source joint s and an unfilled neighbor t the directed
//	channel of edge (s, t) is queried from s's position and scale. The
//	prediction is accepted when the fused score sqrt(V·s.V) reaches both
//	KeypointThreshold and s.V·KeypointThresholdRel and, with ReverseMatch,
//	the opposite channel queried from the prediction lands within s's scale
//	(L1 distance) of s.
//
// Frontier
//
//	The frontier is a max-heap with lazy resolution. A connection is queued
//	with the admissible bound sqrt(s.V)·ConfidenceScales[edge] and only
//	evaluated once it reaches the top. A resolved entry at the top is
//	committed; no unresolved entry below it can score higher. In Greedy
//	mode the first viable resolution is committed directly.
//
// Determinism
//
//	Seeds with equal confidence keep extractor order. Heap ties prefer
//	resolved entries, then lower source joint, then lower target joint, then
//	insertion order. Two runs over the same fields return identical poses.
//
// Errors
//
//   - ErrNilTopology, ErrMissingCollaborator from New.
//   - ErrBadThreshold, ErrBadConnectionMethod, ErrConfidenceScales,
//     ErrScoreWeights, ErrBadOccupancy for invalid configuration.
//   - ErrChannelMismatch when the association service serves a different
//     number of channels than the skeleton has edges.
//   - Collaborator failures are wrapped with %w.
//
// Seeds or edges without evidence are not errors: the affected joints stay
// unfilled.
//
// Complexity (K = keypoints, E = edges, S = seeds)
//
//   - Growth of one annotation: O(E log E) heap work plus at most 2E
//     channel evaluations.
//   - Decode: O(S·E log E) plus the channel queries.
//
// Thread safety
//
//	A Decoder keeps its accumulator and occupancy grid between frames and is
//	not safe for concurrent use. Use one Decoder per goroutine.
package decoder
