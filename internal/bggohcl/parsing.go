// Package bggohcl holds small helpers on top of hashicorp/hcl shared by the
// HCL loader.
package bggohcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// ReferenceNames reads a list expression whose items name other nodes. An
// item may be a bare identifier (`x`) or a string literal (`"x"`).
func ReferenceNames(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		name, itemDiags := referenceName(item)
		diags = append(diags, itemDiags...)
		if itemDiags.HasErrors() {
			continue
		}
		names = append(names, name)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return names, diags
}

func referenceName(expr hcl.Expression) (string, hcl.Diagnostics) {
	// A bare identifier is a traversal without a scope to resolve in.
	if traversal, travDiags := hcl.AbsTraversalForExpr(expr); !travDiags.HasErrors() {
		if len(traversal) != 1 {
			return "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid node reference",
				Detail:   fmt.Sprintf("The reference %s must be a bare node name.", TraversalKey(traversal)),
				Subject:  expr.Range().Ptr(),
			}}
		}
		return traversal.RootName(), nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid node reference",
			Detail:   fmt.Sprintf("Expected a node name or string, got %s.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return val.AsString(), nil
}
