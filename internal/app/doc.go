// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the evaluation lifecycle: loading a graph
// and a feed, running forward passes, reporting outputs and, in watch mode,
// re-running whenever the feed file changes. It is decoupled from any
// specific entrypoint like a CLI.
package app
