package testing

import (
	"maps"

	"github.com/imamik/pvefleet/internal/manifest"
)

// ManifestBuilder provides a fluent interface for constructing test
// manifests. Each method returns a new builder (immutable) for chaining.
type ManifestBuilder struct {
	m manifest.Manifest
}

// NewManifestBuilder creates a ManifestBuilder with a minimal valid
// manifest: one node, one image, one VM template.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		m: manifest.Manifest{
			Defaults: manifest.DefaultsSection{TargetNode: "pve-1"},
			Nodes: map[string]manifest.Node{
				"pve-1": {Address: "10.0.0.10", SSHPort: 22},
			},
			Images: map[string]manifest.Image{
				"vm_debian": {Distro: manifest.DistroDebian, Release: "bookworm", Extension: "qcow2"},
			},
			Templates: map[string]manifest.Template{
				"base": {Kind: manifest.KindVM, Node: "pve-1", Image: "vm_debian", Cores: 2, MemoryMB: 2048, DiskGB: 20},
			},
			Fleet: map[string]manifest.FleetEntry{},
		},
	}
}

// WithNode adds a cluster node.
func (b *ManifestBuilder) WithNode(name, address string) *ManifestBuilder {
	nb := b.clone()
	nb.m.Nodes[name] = manifest.Node{Address: address, SSHPort: 22}
	return nb
}

// WithTemplate adds a guest template.
func (b *ManifestBuilder) WithTemplate(name string, tpl manifest.Template) *ManifestBuilder {
	nb := b.clone()
	nb.m.Templates[name] = tpl
	return nb
}

// WithSingle adds a single fleet entry with an explicit guest ID.
func (b *ManifestBuilder) WithSingle(key, template string, vmID int) *ManifestBuilder {
	nb := b.clone()
	nb.m.Fleet[key] = manifest.FleetEntry{Kind: manifest.KindVM, Template: template, VMID: vmID}
	return nb
}

// WithBatch adds a batch fleet entry.
func (b *ManifestBuilder) WithBatch(key, template string, count, startID int) *ManifestBuilder {
	nb := b.clone()
	nb.m.Fleet[key] = manifest.FleetEntry{Kind: manifest.KindVM, Template: template, Count: count, VMIDStart: startID}
	return nb
}

// WithEntry adds a fleet entry verbatim.
func (b *ManifestBuilder) WithEntry(key string, entry manifest.FleetEntry) *ManifestBuilder {
	nb := b.clone()
	nb.m.Fleet[key] = entry
	return nb
}

// WithNetwork sets a node's network section.
func (b *ManifestBuilder) WithNetwork(node string, net manifest.NodeNetwork) *ManifestBuilder {
	nb := b.clone()
	if nb.m.Network == nil {
		nb.m.Network = map[string]manifest.NodeNetwork{}
	}
	nb.m.Network[node] = net
	return nb
}

// WithCluster sets the cluster section.
func (b *ManifestBuilder) WithCluster(c manifest.Cluster) *ManifestBuilder {
	nb := b.clone()
	nb.m.Cluster = c
	return nb
}

// Build returns the constructed manifest.
func (b *ManifestBuilder) Build() *manifest.Manifest {
	nb := b.clone()
	return &nb.m
}

func (b *ManifestBuilder) clone() *ManifestBuilder {
	nb := &ManifestBuilder{m: b.m}
	nb.m.Nodes = maps.Clone(b.m.Nodes)
	nb.m.Images = maps.Clone(b.m.Images)
	nb.m.Templates = maps.Clone(b.m.Templates)
	nb.m.Fleet = maps.Clone(b.m.Fleet)
	nb.m.Network = maps.Clone(b.m.Network)
	return nb
}
