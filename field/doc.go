// Package field declares the capability interfaces through which the decoder
// consumes its per-frame collaborators, and ships static implementations of
// them for fixtures and tests.
//
// Collaborators
//
//   - Accumulator:        turns raw confidence fields into a queryable field;
//     reset once per frame before accumulation.
//   - SeedExtractor:      yields ranked start points from the accumulated field.
//   - AssociationService: prepares per-edge directed Channels with a score floor.
//   - InstanceNMS:        final cross-instance suppression.
//
// The decoder never inspects Raw payloads; they are passed between the
// collaborators untouched, so accelerated or mocked implementations can be
// swapped in without changing the search.
//
// Static implementations
//
//   - Frame:            a pre-extracted payload of seeds and association vectors.
//   - PassThrough:      Accumulator that keeps the last accumulated payload.
//   - FrameSeeds:       SeedExtractor reading the seeds of a Frame.
//   - FrameAssociation: AssociationService reading the vectors of a Frame.
//   - Vectors:          slice-backed Channel answering "blend" and "max" queries.
package field
