// Package gb reads and writes graphs in the GraphBase text format.
//
// A file has four sections in order: the GraphBase header with the graph id
// and graph utilities, one row per vertex, one row per arc, and a checksum
// that is read but not validated. Vertices and arcs reference each other by
// 0-based rank using the V<k> and A<k> sigils; a bare 0 is null and a bare 1
// is the boolean-true vertex.
package gb

import (
	"go.uber.org/zap"
)

const (
	sectionMark  = '*'
	fieldSep     = ','
	continuation = '\\'

	// wrapWidth is the number of string bytes written per physical line
	// before a continuation marker.
	wrapWidth = 58
)

type section int

const (
	sectionGraphBase section = iota
	sectionVertices
	sectionArcs
	sectionChecksum
)

var sectionNames = [...]string{"GraphBase", "Vertices", "Arcs", "Checksum"}

func (s section) String() string {
	return sectionNames[s]
}

// Option configures Read and Write.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger routes codec diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
