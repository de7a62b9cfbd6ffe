// Package expand compiles the manifest's compact fleet and network
// descriptions into fully expanded, deterministic resource collections.
package expand

import (
	"fmt"

	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/report"
	"github.com/imamik/pvefleet/internal/util/macaddr"
	"github.com/imamik/pvefleet/internal/util/naming"
)

// Fleet expands every fleet entry into concrete instances keyed by
// instance name.
//
// Entries are processed in sorted key order and all derivation is pure, so
// the same manifest always expands to the same instance set. Entries whose
// single/batch shape is inconsistent are rejected as a whole; no member
// of a bad entry is ever emitted. Only derivation overflows are recorded
// here; everything diagnosable from the manifest alone is reported by the
// validator pass, exactly once. Expansion never stops at the first
// problem; the caller gets every finding in one pass.
func Fleet(m *manifest.Manifest, defs manifest.Defaults, rep *report.Report) map[string]Instance {
	instances := make(map[string]Instance)

	for _, key := range manifest.SortedKeys(m.Fleet) {
		entry := m.Fleet[key]
		path := "fleet." + key

		// Entries with an inconsistent shape are skipped whole. The shape
		// error itself is reported by the validator pass, like the batch
		// range violations below.
		shape, err := entry.Shape()
		if err != nil {
			continue
		}

		switch s := shape.(type) {
		case manifest.Single:
			instances[key] = buildInstance(key, s.ID, entry, m, defs, path, rep)
		case manifest.Batch:
			// Counts above the kind ceiling are rejected whole. The range
			// violation itself is reported by the validator pass.
			if s.Count > entry.Kind.BatchLimit() {
				continue
			}
			for index := 1; index <= s.Count; index++ {
				name := naming.BatchMember(key, index)
				id := instanceID(s.StartID, index)
				origin := fmt.Sprintf("%s[%d]", path, index)
				instances[name] = buildInstance(name, id, entry, m, defs, origin, rep)
			}
		}
	}

	return instances
}

// instanceID derives the guest ID of the index-th member of a batch
// (1-based). Single-instance IDs are taken verbatim from the manifest and
// never pass through here.
func instanceID(startID, index int) int {
	return startID + index - 1
}

// buildInstance assembles one expanded record. Placement resolves with the
// documented precedence: the entry's explicit node, then the referenced
// template's node, then the cluster default. Disk datastores default to the
// cluster block-storage class. NIC MACs are derived only when no explicit
// MAC is authored and the guest ID is known.
func buildInstance(name string, id int, entry manifest.FleetEntry, m *manifest.Manifest, defs manifest.Defaults, origin string, rep *report.Report) Instance {
	templateNode := ""
	if tpl, ok := m.Templates[entry.Template]; ok {
		templateNode = tpl.Node
	}

	inst := Instance{
		Name:      name,
		ID:        id,
		Kind:      entry.Kind,
		Node:      defs.Node(entry.TargetNode, templateNode),
		Template:  entry.Template,
		Protected: entry.Protected,
		Origin:    origin,
	}

	if len(entry.Disks) > 0 {
		inst.Disks = make([]manifest.Disk, len(entry.Disks))
		for i, disk := range entry.Disks {
			disk.Datastore = defs.BlockDatastore(disk.Datastore)
			inst.Disks[i] = disk
		}
	}

	if len(entry.NICs) > 0 {
		inst.NICs = make([]manifest.NIC, len(entry.NICs))
		for i, nic := range entry.NICs {
			if nic.MAC == "" && id > 0 {
				mac, err := macaddr.Derive(macTag(entry.Kind), id, i)
				if err != nil {
					rep.Add(fmt.Sprintf("%s.nics[%d]", origin, i), "MAC derivation failed: "+err.Error(), id)
				} else {
					nic.MAC = mac
				}
			}
			inst.NICs[i] = nic
		}
	}

	return inst
}

// macTag maps a guest kind to its MAC kind octet.
func macTag(kind manifest.GuestKind) byte {
	if kind == manifest.KindContainer {
		return macaddr.KindContainer
	}
	return macaddr.KindVM
}
