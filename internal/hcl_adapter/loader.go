package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/miniflow/internal/bggohcl"
	"github.com/specialistvlad/miniflow/internal/config"
	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/fsutil"
	"github.com/specialistvlad/miniflow/internal/tensor"
)

// Extensions lists the file extensions this loader reads.
var Extensions = []string{".hcl"}

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileSchema describes the top level of a graph file. Blocks are read with
// the low-level API so their source order survives.
var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "outputs"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "node", LabelNames: []string{"kind", "name"}},
	},
}

// inputBody is the body of an `input` block. It takes no attributes.
type inputBody struct{}

// nodeBody is the body of a `node` block.
type nodeBody struct {
	Inputs hcl.Expression `hcl:"inputs,optional"`
}

// Load orchestrates the HCL loading process. Directories are searched
// recursively for .hcl files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		m, err := l.translateFile(ctx, file, hclFile.Body)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}

	logger.Debug("HCL loading complete.", "nodes", len(model.Nodes), "outputs", len(model.Outputs))
	return model, nil
}

func (l *Loader) translateFile(ctx context.Context, file string, body hcl.Body) (*config.Model, error) {
	content, diags := body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	model := &config.Model{}
	for _, block := range content.Blocks {
		switch block.Type {
		case "input":
			var b inputBody
			if diags := gohcl.DecodeBody(block.Body, nil, &b); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode input '%s' in %s: %w", block.Labels[0], file, diags)
			}
			model.Nodes = append(model.Nodes, &config.NodeDecl{
				Kind:   config.InputKind,
				Name:   block.Labels[0],
				Source: file,
			})
		case "node":
			decl, err := l.translateNode(ctx, file, block)
			if err != nil {
				return nil, err
			}
			model.Nodes = append(model.Nodes, decl)
		}
	}

	if attr, ok := content.Attributes["outputs"]; ok {
		outputs, diags := bggohcl.ReferenceNames(attr.Expr)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode outputs in %s: %w", file, diags)
		}
		model.Outputs = outputs
	}
	return model, nil
}

func (l *Loader) translateNode(ctx context.Context, file string, block *hcl.Block) (*config.NodeDecl, error) {
	kind, name := block.Labels[0], block.Labels[1]
	var b nodeBody
	if diags := gohcl.DecodeBody(block.Body, nil, &b); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode node '%s' in %s: %w", name, file, diags)
	}

	decl := &config.NodeDecl{Kind: kind, Name: name, Source: file}
	if isExprDefined(ctx, b.Inputs, "inputs") {
		inputs, diags := bggohcl.ReferenceNames(b.Inputs)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode inputs of node '%s' in %s: %w", name, file, diags)
		}
		decl.Inputs = inputs
	}
	return decl, nil
}

// LoadFeed reads a feed file of `name = value` attributes.
func (l *Loader) LoadFeed(ctx context.Context, path string) (config.Feed, error) {
	logger := ctxlog.FromContext(ctx)

	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL feed %s: %w", path, diags)
	}
	attrs, diags := hclFile.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL feed %s: %w", path, diags)
	}

	feed := make(config.Feed, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate '%s' in %s: %w", name, path, diags)
		}
		raw, err := ctyToAny(val)
		if err != nil {
			return nil, fmt.Errorf("value of '%s' in %s: %w", name, path, err)
		}
		v, err := tensor.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("value of '%s' in %s: %w", name, path, err)
		}
		feed[name] = v
	}

	logger.Debug("HCL feed loaded.", "path", path, "inputs", len(feed))
	return feed, nil
}

// findAllHCLFiles expands directories and drops duplicates, keeping the
// order paths were given in.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
