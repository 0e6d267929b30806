// Package resolve computes the effective value of a component property.
//
// A Pipeline holds an ordered chain of Resolvers and returns the value of the
// first one that produces something of the requested type. The default chain
// is PropsResolver (runtime prop bindings) followed by ScalarResolver
// (literal properties, then literal style). A resolver that has no value, or
// a value of the wrong type, simply defers to the next one; when the chain is
// exhausted the caller picks its own default.
//
// Resolvers are stateless and pipelines are immutable, so a single Pipeline
// can serve any number of concurrent renders.
package resolve
