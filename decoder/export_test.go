package decoder

import (
	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/field"
)

// White-box bridge for decoder_test. Compiled only with the tests.

// SetResolveHook installs fn as the observer of every lazy resolution.
func (d *Decoder) SetResolveHook(fn func(source, target int, bound, priority float64)) {
	d.onResolve = fn
}

// GrowReverse runs a growth pass with an explicit reverse-match switch.
func (d *Decoder) GrowReverse(ann *annotation.Annotation, chs field.Channels, reverseMatch bool) GrowStats {
	return d.grow(ann, chs, reverseMatch)
}

var (
	ExportedConnectionValue = (*Decoder).connectionValue
	ExportedFloodFill       = (*Decoder).floodFill
)
