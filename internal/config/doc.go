// Package config defines the format-agnostic model of a graph definition and
// of a feed, along with the Loader interface that format-specific packages
// implement.
//
// `config.Model` is the single source of truth for graph construction.
// Concrete loaders, such as the HCL and YAML ones, live in separate packages.
package config
