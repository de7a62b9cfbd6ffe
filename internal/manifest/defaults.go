package manifest

import "sort"

// Built-in fallbacks applied when the defaults section leaves a field
// unset. These match the conventional single-node homelab layout.
const (
	FallbackTargetNode   = "pve"
	FallbackFileStorage  = "local"
	FallbackBlockStorage = "local-lvm"
)

// Defaults is the resolved cluster-defaults object consulted by every
// downstream stage via fallback lookup. It is derived once from the
// defaults section and never merged back into the manifest tree, so a
// defaulted value can never masquerade as an explicit override.
type Defaults struct {
	TargetNode   string
	FileStorage  string
	BlockStorage string
}

// ResolveDefaults applies the built-in fallbacks to the raw defaults
// section.
func ResolveDefaults(s DefaultsSection) Defaults {
	return Defaults{
		TargetNode:   firstNonEmpty(s.TargetNode, FallbackTargetNode),
		FileStorage:  firstNonEmpty(s.FileStorage, FallbackFileStorage),
		BlockStorage: firstNonEmpty(s.BlockStorage, FallbackBlockStorage),
	}
}

// Node resolves a placement node with the documented precedence:
// explicit value, then any entry-level defaults passed by the caller in
// order, then the cluster default target node.
func (d Defaults) Node(candidates ...string) string {
	return firstNonEmpty(append(candidates, d.TargetNode)...)
}

// BlockDatastore resolves a block-storage datastore (guest disks).
func (d Defaults) BlockDatastore(candidates ...string) string {
	return firstNonEmpty(append(candidates, d.BlockStorage)...)
}

// FileDatastore resolves a file-storage datastore (images, cloud-init
// documents).
func (d Defaults) FileDatastore(candidates ...string) string {
	return firstNonEmpty(append(candidates, d.FileStorage)...)
}

// firstNonEmpty returns the first non-empty candidate. It is the single
// resolution primitive behind every "value or default" lookup.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// sortedKeys returns the map's keys in sorted order. Expansion and
// validation iterate manifests through this helper so output never depends
// on map iteration order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedKeys is the exported form of sortedKeys for downstream stages.
func SortedKeys[V any](m map[string]V) []string {
	return sortedKeys(m)
}
