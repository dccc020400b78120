package bggohcl

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey renders an hcl.Traversal the way it appears in source, e.g.
// `foo.bar[0]`, for use in messages and as a map key.
func TraversalKey(t hcl.Traversal) string {
	return strings.TrimSpace(string(hclwrite.TokensForTraversal(t).Bytes()))
}
