// Package ops defines the operation plugin contract and the registry that
// maps a node kind (e.g. "add", "linear") to the compiled Go operation
// implementing it.
//
// Operations are supplied by modules. During application startup every
// module registers its operations, and graph construction resolves each
// node's kind against the registry exactly once. The engine never looks
// inside an operation beyond calling Forward with the ordered values of a
// node's dependencies.
package ops
