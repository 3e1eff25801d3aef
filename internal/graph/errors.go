package graph

import "errors"

// ErrNotSupported flags an unknown node type or channel interpretation.
var ErrNotSupported = errors.New("graph: not supported")

// ErrInvalidState flags a structural request that violates the graph's
// lifecycle or identity invariants (e.g. connecting nodes from different
// graphs, referencing a retired node).
var ErrInvalidState = errors.New("graph: invalid state")

// ErrGraphCycle is fatal: a
// cycle survived after all delay-like (BreaksCycle) nodes were cut from
// the dependency graph. computeOrder returns it; RenderBlock answers it
// with a silence block plus a counted diagnostic rather than passing it
// on, so callers of RenderBlock never see it as an error return.
var ErrGraphCycle = errors.New("graph: unbroken cycle, fatal invariant violation")
