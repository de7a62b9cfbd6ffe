package expand

import "github.com/imamik/pvefleet/internal/manifest"

// Instance is one fully expanded guest record. It carries everything the
// provisioning layer needs to issue a create call without further lookups.
// Instances are never mutated after expansion.
type Instance struct {
	// Name is the instance name, used verbatim as the guest hostname.
	// Singles are named after their fleet key; batch members are named
	// "<key>_<index>".
	Name string `json:"name"`

	// ID is the numeric guest ID. Zero means the ID was left unset on a
	// single entry and is allocated externally.
	ID int `json:"id,omitempty"`

	Kind     manifest.GuestKind `json:"kind"`
	Node     string             `json:"node"`
	Template string             `json:"template"`

	// Disks are the entry's extra disks with datastores resolved against
	// the cluster block-storage default.
	Disks []manifest.Disk `json:"disks,omitempty"`

	// NICs are the entry's interfaces with MACs resolved: explicit MACs
	// are kept, the rest are derived from (kind, ID, index) when the ID
	// is known.
	NICs []manifest.NIC `json:"nics,omitempty"`

	Protected bool `json:"protected,omitempty"`

	// Origin is the manifest path of the entry field set that produced
	// this instance, e.g. "fleet.gateway" or "fleet.worker[2]". Violations
	// about derived values are reported under it. It is not part of the
	// emitted resource set.
	Origin string `json:"-"`
}

// FlatBond is a node-qualified bond in the flattened topology.
type FlatBond struct {
	manifest.Bond
	TargetNode string `json:"target_node"`
	Name       string `json:"name"`
}

// FlatVLAN is a node-qualified VLAN in the flattened topology.
type FlatVLAN struct {
	manifest.VLAN
	TargetNode string `json:"target_node"`
	Name       string `json:"name"`
}

// FlatBridge is a node-qualified bridge in the flattened topology.
type FlatBridge struct {
	manifest.Bridge
	TargetNode string `json:"target_node"`
	Name       string `json:"name"`
}

// FlatNetwork holds the three flattened element collections, each keyed
// "<node>_<name>". The three kinds are flattened independently and never
// cross-merged.
type FlatNetwork struct {
	Bonds   map[string]FlatBond   `json:"bonds,omitempty"`
	VLANs   map[string]FlatVLAN   `json:"vlans,omitempty"`
	Bridges map[string]FlatBridge `json:"bridges,omitempty"`
}
