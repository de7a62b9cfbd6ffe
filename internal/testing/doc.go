// Package testing provides test builders for constructing manifests.
//
// This package centralizes common testing patterns to avoid duplication
// across test files:
//   - ManifestBuilder: Fluent builder for creating test manifests
//
// Usage:
//
//	m := testing.NewManifestBuilder().
//	    WithNode("pve-1", "10.0.0.10").
//	    WithBatch("worker", "base", 3, 2000).
//	    Build()
package testing
