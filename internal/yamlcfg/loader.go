// Package yamlcfg provides a YAML implementation of config.Loader.
//
// A graph file lists its inputs, its operation nodes in order and,
// optionally, the nodes to report:
//
//	inputs: [x, W, b]
//	nodes:
//	  - name: hidden
//	    kind: linear
//	    inputs: [x, W, b]
//	  - name: out
//	    kind: sigmoid
//	    inputs: [hidden]
//	outputs: [out]
//
// A feed file is a mapping from input name to a number or nested list.
package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/miniflow/internal/config"
	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/fsutil"
	"github.com/specialistvlad/miniflow/internal/tensor"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions this loader reads.
var Extensions = []string{".yaml", ".yml"}

type graphFile struct {
	Inputs  []string    `yaml:"inputs"`
	Nodes   []*nodeSpec `yaml:"nodes"`
	Outputs []string    `yaml:"outputs"`
}

type nodeSpec struct {
	Name   string   `yaml:"name"`
	Kind   string   `yaml:"kind"`
	Inputs []string `yaml:"inputs"`
}

// Loader reads graphs and feeds from YAML files.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. Directories are searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		files = append(files, found...)
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		var gf graphFile
		if err := decodeFile(file, &gf); err != nil {
			return nil, err
		}
		for _, name := range gf.Inputs {
			model.Nodes = append(model.Nodes, &config.NodeDecl{Kind: config.InputKind, Name: name, Source: file})
		}
		for i, n := range gf.Nodes {
			if n == nil || n.Kind == "" {
				return nil, fmt.Errorf("node %d in %s has no kind", i, file)
			}
			model.Nodes = append(model.Nodes, &config.NodeDecl{Kind: n.Kind, Name: n.Name, Inputs: n.Inputs, Source: file})
		}
		model.Outputs = append(model.Outputs, gf.Outputs...)
	}

	logger.Debug("YAML loading complete.", "nodes", len(model.Nodes), "outputs", len(model.Outputs))
	return model, nil
}

// LoadFeed implements config.Loader.
func (l *Loader) LoadFeed(ctx context.Context, path string) (config.Feed, error) {
	raw := map[string]any{}
	if err := decodeFile(path, &raw); err != nil {
		return nil, err
	}

	feed := make(config.Feed, len(raw))
	for name, item := range raw {
		v, err := tensor.FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("value of '%s' in %s: %w", name, path, err)
		}
		feed[name] = v
	}

	ctxlog.FromContext(ctx).Debug("YAML feed loaded.", "path", path, "inputs", len(feed))
	return feed, nil
}

// decodeFile strictly decodes a YAML file; unknown fields are errors and an
// empty file decodes to the zero value.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return nil
}
