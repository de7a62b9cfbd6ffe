package expand

import (
	"reflect"
	"testing"

	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/report"
)

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Nodes: map[string]manifest.Node{
			"pve-1": {Address: "10.0.0.10"},
			"pve-2": {Address: "10.0.0.11"},
		},
		Templates: map[string]manifest.Template{
			"base": {Kind: manifest.KindVM, Node: "pve-2", Image: "vm_debian", Cores: 2, MemoryMB: 2048, DiskGB: 20},
		},
		Fleet: map[string]manifest.FleetEntry{},
	}
}

func testDefaults() manifest.Defaults {
	return manifest.ResolveDefaults(manifest.DefaultsSection{TargetNode: "pve-1"})
}

func TestFleet_SingleEntry(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["gateway"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", VMID: 500, TargetNode: "pve-1"}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if !rep.OK() {
		t.Fatalf("unexpected violations: %v", rep.Violations())
	}
	if len(instances) != 1 {
		t.Fatalf("instances = %d, want 1", len(instances))
	}
	inst, ok := instances["gateway"]
	if !ok {
		t.Fatal("single instance must be keyed by its entry key")
	}
	if inst.Name != "gateway" || inst.ID != 500 || inst.Node != "pve-1" {
		t.Errorf("instance = %+v", inst)
	}
}

func TestFleet_SingleWithoutIDLeftForExternalAllocation(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["scratch"] = manifest.FleetEntry{
		Kind:     manifest.KindVM,
		Template: "base",
		NICs:     []manifest.NIC{{Bridge: "vmbr0"}},
	}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	inst := instances["scratch"]
	if inst.ID != 0 {
		t.Errorf("ID = %d, want 0 (external allocation)", inst.ID)
	}
	if inst.NICs[0].MAC != "" {
		t.Errorf("MAC = %q, want empty when ID is unset", inst.NICs[0].MAC)
	}
}

func TestFleet_BatchExpansion(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["worker"] = manifest.FleetEntry{
		Kind:       manifest.KindVM,
		Template:   "base",
		Count:      3,
		VMIDStart:  2000,
		TargetNode: "pve-1",
		NICs:       []manifest.NIC{{Bridge: "vmbr0"}},
	}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if !rep.OK() {
		t.Fatalf("unexpected violations: %v", rep.Violations())
	}
	if len(instances) != 3 {
		t.Fatalf("instances = %d, want 3", len(instances))
	}

	wantMACs := map[string]string{
		"worker_1": "02:01:00:07:d0:00",
		"worker_2": "02:01:00:07:d1:00",
		"worker_3": "02:01:00:07:d2:00",
	}
	wantIDs := map[string]int{"worker_1": 2000, "worker_2": 2001, "worker_3": 2002}

	for name, wantID := range wantIDs {
		inst, ok := instances[name]
		if !ok {
			t.Fatalf("missing instance %q", name)
		}
		if inst.ID != wantID {
			t.Errorf("%s ID = %d, want %d", name, inst.ID, wantID)
		}
		if inst.Node != "pve-1" {
			t.Errorf("%s node = %q, want pve-1", name, inst.Node)
		}
		if inst.NICs[0].MAC != wantMACs[name] {
			t.Errorf("%s MAC = %q, want %q", name, inst.NICs[0].MAC, wantMACs[name])
		}
	}
}

func TestFleet_Deterministic(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["worker"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", Count: 10, VMIDStart: 3000}
	m.Fleet["db"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", VMID: 400}

	var rep1, rep2 report.Report
	first := Fleet(m, testDefaults(), &rep1)
	second := Fleet(m, testDefaults(), &rep2)

	if !reflect.DeepEqual(first, second) {
		t.Error("expansion must be identical across repeated runs on the same input")
	}
}

func TestFleet_MixedShapeRejectsWholeEntry(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["broken"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", Count: 3, VMIDStart: 2000, VMID: 500}
	m.Fleet["fine"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", VMID: 600}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	// The shape error itself belongs to the validator pass; the expander
	// only skips the entry.
	if !rep.OK() {
		t.Errorf("expander must not report shape errors, got %v", rep.Violations())
	}
	for name := range instances {
		if name == "broken" || name == "broken_1" {
			t.Errorf("no member of a mixed entry may be emitted, found %q", name)
		}
	}
	if _, ok := instances["fine"]; !ok {
		t.Error("healthy entries must still expand")
	}
}

func TestFleet_OverflowNamesTheMember(t *testing.T) {
	t.Parallel()
	m := testManifest()
	// Member 1 gets the last encodable ID; member 2 overflows.
	m.Fleet["swarm"] = manifest.FleetEntry{
		Kind:      manifest.KindVM,
		Template:  "base",
		Count:     2,
		VMIDStart: 0xFFFFFF,
		NICs:      []manifest.NIC{{Bridge: "vmbr0"}},
	}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if instances["swarm_1"].NICs[0].MAC == "" {
		t.Error("member inside the encodable range must still derive a MAC")
	}
	if rep.Len() != 1 {
		t.Fatalf("violations = %d, want 1: %v", rep.Len(), rep.Violations())
	}
	if got := rep.Violations()[0].Path; got != "fleet.swarm[2].nics[0]" {
		t.Errorf("violation path = %q, want fleet.swarm[2].nics[0]", got)
	}
}

func TestFleet_StampsOrigin(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["gateway"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", VMID: 500}
	m.Fleet["worker"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", Count: 2, VMIDStart: 2000}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if got := instances["gateway"].Origin; got != "fleet.gateway" {
		t.Errorf("single origin = %q, want fleet.gateway", got)
	}
	if got := instances["worker_2"].Origin; got != "fleet.worker[2]" {
		t.Errorf("batch member origin = %q, want fleet.worker[2]", got)
	}
}

func TestFleet_PlacementPrecedence(t *testing.T) {
	t.Parallel()
	m := testManifest()
	// Entry node wins over template node and cluster default.
	m.Fleet["a"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", VMID: 300, TargetNode: "pve-2"}
	// Template node wins over cluster default.
	m.Fleet["b"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", VMID: 301}
	// No entry or template node falls back to the cluster default.
	m.Fleet["c"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "missing", VMID: 302}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if got := instances["a"].Node; got != "pve-2" {
		t.Errorf("entry node should win, got %q", got)
	}
	if got := instances["b"].Node; got != "pve-2" {
		t.Errorf("template node should win over cluster default, got %q", got)
	}
	if got := instances["c"].Node; got != "pve-1" {
		t.Errorf("cluster default expected, got %q", got)
	}
}

func TestFleet_DiskDatastoreDefaulting(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["db"] = manifest.FleetEntry{
		Kind:     manifest.KindVM,
		Template: "base",
		VMID:     400,
		Disks: []manifest.Disk{
			{SizeGB: 100},
			{SizeGB: 50, Datastore: "fast-nvme"},
		},
	}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	disks := instances["db"].Disks
	if disks[0].Datastore != manifest.FallbackBlockStorage {
		t.Errorf("disk 0 datastore = %q, want block-storage default", disks[0].Datastore)
	}
	if disks[1].Datastore != "fast-nvme" {
		t.Errorf("disk 1 datastore = %q, explicit value must never be overridden", disks[1].Datastore)
	}
}

func TestFleet_ExplicitMACWins(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["pin"] = manifest.FleetEntry{
		Kind:     manifest.KindVM,
		Template: "base",
		VMID:     700,
		NICs: []manifest.NIC{
			{Bridge: "vmbr0", MAC: "de:ad:be:ef:00:01"},
			{Bridge: "vmbr1"},
		},
	}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	nics := instances["pin"].NICs
	if nics[0].MAC != "de:ad:be:ef:00:01" {
		t.Errorf("explicit MAC must win, got %q", nics[0].MAC)
	}
	if nics[1].MAC != "02:01:00:02:bc:01" {
		t.Errorf("derived MAC for nic 1 = %q, want 02:01:00:02:bc:01", nics[1].MAC)
	}
}

func TestFleet_ContainerMACTag(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["ct"] = manifest.FleetEntry{
		Kind:     manifest.KindContainer,
		Template: "base",
		VMID:     800,
		NICs:     []manifest.NIC{{Bridge: "vmbr0"}},
	}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if got := instances["ct"].NICs[0].MAC; got != "02:02:00:03:20:00" {
		t.Errorf("container MAC = %q, want 02:02:00:03:20:00", got)
	}
}

func TestFleet_BatchOverCeilingEmitsNothing(t *testing.T) {
	t.Parallel()
	m := testManifest()
	m.Fleet["swarm"] = manifest.FleetEntry{Kind: manifest.KindVM, Template: "base", Count: 5000, VMIDStart: 1000}

	var rep report.Report
	instances := Fleet(m, testDefaults(), &rep)

	if len(instances) != 0 {
		t.Errorf("over-ceiling batch must not expand, got %d instances", len(instances))
	}
}
