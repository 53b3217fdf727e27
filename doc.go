// Package posegraph assembles multi-person poses from the outputs of a
// bottom-up pose network: a per-keypoint confidence field and a per-edge
// association field.
//
// What is posegraph?
//
//	A small, dependency-light decoder that turns ranked keypoint seeds and
//	directed association vectors into pose instances:
//		• Skeletons: keypoint topologies with both edge directions indexed
//		• Annotations: pose instances with decoding audit trails and scores
//		• Fields: the collaborator interfaces plus static Frame payloads
//		• Occupancy: per-keypoint-type seed suppression grid
//		• Decoder: greedy best-first growth, completion and NMS hooks
//
// Under the hood the work is split across these subpackages:
//
//	skeleton/    Topology, Edge, Link and the COCO person skeleton
//	annotation/  Annotation, Joint, Step and JSON encoding
//	field/       Seed, Candidate, Channel interfaces, Frame and Vectors
//	occupancy/   Grid with reduced resolution and square marking
//	decoder/     Config, Decoder, growth frontier, completion pass
//	cmd/         posedecode, a JSON-in/JSON-out command line front end
//
// Quick start:
//
//	top := skeleton.COCO()
//	d, err := decoder.New(top, decoder.WithConnectionMethod(decoder.Max))
//	if err != nil { … }
//	anns, err := d.Decode(decoder.Fields{
//		Confidence:  []field.Raw{frame},
//		Association: frame,
//		Shape:       occupancy.Shape{Height: h, Width: w},
//	})
//
// See each subpackage's doc.go for details and examples.
package posegraph
