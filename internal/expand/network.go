package expand

import (
	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/report"
	"github.com/imamik/pvefleet/internal/util/naming"
)

// Network flattens the per-node network maps into three globally keyed
// collections. Every element is re-keyed "<node>_<name>" with the owning
// node and original name stamped into the value, so consumers never need
// the nested structure back.
//
// Within one node the element names are unique by construction (they are
// map keys), but distinct (node, name) pairs can still collide after
// concatenation — e.g. node "pve" element "a_b" against node "pve_a"
// element "b". Such collisions are recorded in the report instead of
// silently overwriting either element. A node without a section for some
// kind simply contributes nothing to that kind.
func Network(m *manifest.Manifest, rep *report.Report) *FlatNetwork {
	flat := &FlatNetwork{
		Bonds:   make(map[string]FlatBond),
		VLANs:   make(map[string]FlatVLAN),
		Bridges: make(map[string]FlatBridge),
	}

	for _, node := range manifest.SortedKeys(m.Network) {
		net := m.Network[node]

		for _, name := range manifest.SortedKeys(net.Bonds) {
			key := flatKey(node, name)
			if _, exists := flat.Bonds[key]; exists {
				rep.Add("network."+node+".bonds."+name, "flattened key collides with another node's element", key)
				continue
			}
			flat.Bonds[key] = FlatBond{Bond: net.Bonds[name], TargetNode: node, Name: name}
		}

		for _, name := range manifest.SortedKeys(net.VLANs) {
			key := flatKey(node, name)
			if _, exists := flat.VLANs[key]; exists {
				rep.Add("network."+node+".vlans."+name, "flattened key collides with another node's element", key)
				continue
			}
			flat.VLANs[key] = FlatVLAN{VLAN: net.VLANs[name], TargetNode: node, Name: name}
		}

		for _, name := range manifest.SortedKeys(net.Bridges) {
			key := flatKey(node, name)
			if _, exists := flat.Bridges[key]; exists {
				rep.Add("network."+node+".bridges."+name, "flattened key collides with another node's element", key)
				continue
			}
			flat.Bridges[key] = FlatBridge{Bridge: net.Bridges[name], TargetNode: node, Name: name}
		}
	}

	return flat
}

func flatKey(node, name string) string {
	return naming.NetworkElement(node, name)
}
