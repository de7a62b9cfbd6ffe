package expand

import (
	"testing"

	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/report"
)

func TestNetwork_FlattensPerNode(t *testing.T) {
	t.Parallel()
	m := &manifest.Manifest{
		Network: map[string]manifest.NodeNetwork{
			"pve-1": {
				Bonds: map[string]manifest.Bond{
					"bond0": {Slaves: []string{"eno1", "eno2"}, Mode: "802.3ad", MTU: 9000},
				},
				VLANs: map[string]manifest.VLAN{
					"vlan40": {Interface: "bond0", VLANID: 40},
				},
				Bridges: map[string]manifest.Bridge{
					"vmbr0": {Ports: []string{"vlan40"}, CIDR: "10.0.40.2/24"},
				},
			},
		},
	}

	var rep report.Report
	flat := Network(m, &rep)

	if !rep.OK() {
		t.Fatalf("unexpected violations: %v", rep.Violations())
	}

	bond, ok := flat.Bonds["pve-1_bond0"]
	if !ok {
		t.Fatal("missing flattened key pve-1_bond0")
	}
	if bond.TargetNode != "pve-1" || bond.Name != "bond0" {
		t.Errorf("bond stamped fields = %q/%q, want pve-1/bond0", bond.TargetNode, bond.Name)
	}
	if bond.Mode != "802.3ad" || len(bond.Slaves) != 2 {
		t.Errorf("original bond fields must survive flattening: %+v", bond)
	}

	if _, ok := flat.VLANs["pve-1_vlan40"]; !ok {
		t.Error("missing flattened key pve-1_vlan40")
	}
	if _, ok := flat.Bridges["pve-1_vmbr0"]; !ok {
		t.Error("missing flattened key pve-1_vmbr0")
	}
}

func TestNetwork_SameNameOnTwoNodesNeverCollides(t *testing.T) {
	t.Parallel()
	m := &manifest.Manifest{
		Network: map[string]manifest.NodeNetwork{
			"node_a": {Bridges: map[string]manifest.Bridge{"br0": {CIDR: "10.0.1.2/24"}}},
			"node_b": {Bridges: map[string]manifest.Bridge{"br0": {CIDR: "10.0.2.2/24"}}},
		},
	}

	var rep report.Report
	flat := Network(m, &rep)

	if !rep.OK() {
		t.Fatalf("unexpected violations: %v", rep.Violations())
	}
	if len(flat.Bridges) != 2 {
		t.Fatalf("bridges = %d, want 2 distinct flattened keys", len(flat.Bridges))
	}
	if flat.Bridges["node_a_br0"].CIDR != "10.0.1.2/24" || flat.Bridges["node_b_br0"].CIDR != "10.0.2.2/24" {
		t.Error("flattening must keep both same-named elements intact")
	}
}

func TestNetwork_CompositeKeyCollisionIsReported(t *testing.T) {
	t.Parallel()
	// "pve" + "a_br0" and "pve_a" + "br0" concatenate to the same key.
	m := &manifest.Manifest{
		Network: map[string]manifest.NodeNetwork{
			"pve":   {Bridges: map[string]manifest.Bridge{"a_br0": {}}},
			"pve_a": {Bridges: map[string]manifest.Bridge{"br0": {}}},
		},
	}

	var rep report.Report
	flat := Network(m, &rep)

	if rep.OK() {
		t.Fatal("composite key collision must be reported, not silently overwritten")
	}
	if len(flat.Bridges) != 1 {
		t.Errorf("bridges = %d, want 1 (first element kept, collision reported)", len(flat.Bridges))
	}
}

func TestNetwork_MissingKindsContributeNothing(t *testing.T) {
	t.Parallel()
	m := &manifest.Manifest{
		Network: map[string]manifest.NodeNetwork{
			"pve-1": {Bridges: map[string]manifest.Bridge{"vmbr0": {}}},
		},
	}

	var rep report.Report
	flat := Network(m, &rep)

	if !rep.OK() {
		t.Fatalf("a node without bonds or vlans is not an error: %v", rep.Violations())
	}
	if len(flat.Bonds) != 0 || len(flat.VLANs) != 0 {
		t.Error("absent kinds must flatten to empty collections")
	}
	if len(flat.Bridges) != 1 {
		t.Errorf("bridges = %d, want 1", len(flat.Bridges))
	}
}
