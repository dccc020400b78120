// Package hcl_adapter provides the HCL implementation of config.Loader.
//
// A graph file declares inputs and operation nodes as blocks and may name
// the nodes to report:
//
//	input "x" {}
//	input "W" {}
//	input "b" {}
//
//	node "linear" "hidden" {
//	  inputs = [x, W, b]
//	}
//
//	node "sigmoid" "out" {
//	  inputs = [hidden]
//	}
//
//	outputs = ["out"]
//
// Node references may be bare identifiers or strings. Blocks are kept in
// source order, so a node may reference one declared further down.
//
// A feed file is a flat list of attributes whose values are numbers or
// nested lists of numbers:
//
//	x = [[1, 2]]
//	W = [[1], [1]]
//	b = [0]
package hcl_adapter
