// Package validate runs the cross-reference and range checks over the
// effective manifest and the expanded instance set.
//
// The validator collects every violation it finds in one pass instead of
// stopping at the first, so a manifest author fixes everything in a single
// iteration. Any violation blocks the expanded set from being handed to
// the provisioning layer; partial provisioning is never attempted.
package validate

import (
	"fmt"

	"github.com/imamik/pvefleet/internal/expand"
	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/report"
)

// Run validates the manifest tree and the expanded instances, appending
// every violation to the report.
func Run(m *manifest.Manifest, instances map[string]expand.Instance, rep *report.Report) {
	v := &validator{m: m, rep: rep}

	v.checkNames()
	v.checkNodes()
	v.checkImages()
	v.checkTemplates()
	v.checkCloudInit()
	v.checkFleet()
	v.checkNetwork()
	v.checkInstances(instances)
}

type validator struct {
	m   *manifest.Manifest
	rep *report.Report
}

// checkNames verifies every section key against the naming rule. Node
// names additionally reach DNS and shell contexts downstream, so they get
// no looser treatment than guest names.
func (v *validator) checkNames() {
	sections := map[string][]string{
		"nodes":               manifest.SortedKeys(v.m.Nodes),
		"images":              manifest.SortedKeys(v.m.Images),
		"templates":           manifest.SortedKeys(v.m.Templates),
		"cloud_init_profiles": manifest.SortedKeys(v.m.CloudInitProfiles),
		"cloud_init_configs":  manifest.SortedKeys(v.m.CloudInitConfigs),
		"fleet":               manifest.SortedKeys(v.m.Fleet),
	}
	for section, keys := range sections {
		for _, key := range keys {
			if !validName(key) {
				v.rep.Add(section+"."+key, "name must be lowercase alphanumeric/underscore starting with a letter", key)
			}
		}
	}
}

func (v *validator) checkNodes() {
	for _, name := range manifest.SortedKeys(v.m.Nodes) {
		node := v.m.Nodes[name]
		if node.Address == "" {
			v.rep.Add("nodes."+name+".address", "address is required", nil)
		}
		if node.SSHPort != 0 && !inRange(node.SSHPort, 1, 65535) {
			v.rep.Add("nodes."+name+".ssh_port", "ssh_port must be a valid port", node.SSHPort)
		}
	}
}

func (v *validator) checkImages() {
	for _, name := range manifest.SortedKeys(v.m.Images) {
		img := v.m.Images[name]
		path := "images." + name
		v.checkNodeRef(path+".target_node", img.TargetNode)
		if img.Type() == "unknown" {
			v.rep.Add(path+".extension", "extension does not map to a known content type", img.Extension)
		}
	}
}

func (v *validator) checkTemplates() {
	for _, name := range manifest.SortedKeys(v.m.Templates) {
		tpl := v.m.Templates[name]
		path := "templates." + name

		if !tpl.Kind.IsValid() {
			v.rep.Add(path+".kind", `kind must be "vm" or "container"`, tpl.Kind)
		}
		v.checkNodeRef(path+".node", tpl.Node)
		if _, ok := v.m.Images[tpl.Image]; !ok {
			v.rep.Add(path+".image", "references unknown image", tpl.Image)
		}
		if tpl.CloudInitProfile != "" {
			if _, ok := v.m.CloudInitProfiles[tpl.CloudInitProfile]; !ok {
				v.rep.Add(path+".cloud_init_profile", "references unknown cloud-init profile", tpl.CloudInitProfile)
			}
		}
		if !inRange(tpl.Cores, MinCores, MaxCores) {
			v.rep.Add(path+".cores", fmt.Sprintf("cores must be %d-%d", MinCores, MaxCores), tpl.Cores)
		}
		if !inRange(tpl.MemoryMB, MinMemoryMB, MaxMemoryMB) {
			v.rep.Add(path+".memory_mb", fmt.Sprintf("memory_mb must be %d-%d", MinMemoryMB, MaxMemoryMB), tpl.MemoryMB)
		}
		if !inRange(tpl.DiskGB, MinDiskGB, MaxDiskGB) {
			v.rep.Add(path+".disk_gb", fmt.Sprintf("disk_gb must be %d-%d", MinDiskGB, MaxDiskGB), tpl.DiskGB)
		}
	}
}

func (v *validator) checkCloudInit() {
	for _, name := range manifest.SortedKeys(v.m.CloudInitProfiles) {
		profile := v.m.CloudInitProfiles[name]
		for field, ref := range profile.References() {
			if _, ok := v.m.CloudInitConfigs[ref]; !ok {
				v.rep.Add("cloud_init_profiles."+name+"."+field, "references unknown cloud-init config", ref)
			}
		}
	}
	for _, name := range manifest.SortedKeys(v.m.CloudInitConfigs) {
		cfg := v.m.CloudInitConfigs[name]
		path := "cloud_init_configs." + name
		v.checkNodeRef(path+".target_node", cfg.TargetNode)
		if cfg.Path == "" {
			v.rep.Add(path+".path", "path is required", nil)
		}
	}
}

// checkFleet validates fleet entries at the manifest level. Shape errors
// are re-derived here rather than thrown during expansion so they surface
// together with every other violation class.
func (v *validator) checkFleet() {
	for _, key := range manifest.SortedKeys(v.m.Fleet) {
		entry := v.m.Fleet[key]
		path := "fleet." + key

		if !entry.Kind.IsValid() {
			v.rep.Add(path+".kind", `kind must be "vm" or "container"`, entry.Kind)
		}
		if _, ok := v.m.Templates[entry.Template]; !ok {
			v.rep.Add(path+".template", "references unknown template", entry.Template)
		}
		v.checkNodeRef(path+".target_node", entry.TargetNode)

		shape, err := entry.Shape()
		if err != nil {
			v.rep.Add(path, err.Error(), nil)
			continue
		}
		switch s := shape.(type) {
		case manifest.Single:
			if s.ID != 0 && !inRange(s.ID, MinGuestID, MaxGuestID) {
				v.rep.Add(path+".vm_id", fmt.Sprintf("vm_id must be %d-%d", MinGuestID, MaxGuestID), s.ID)
			}
		case manifest.Batch:
			if limit := entry.Kind.BatchLimit(); !inRange(s.Count, 1, limit) {
				v.rep.Add(path+".count", fmt.Sprintf("batch count must be 1-%d for kind %q", limit, entry.Kind), s.Count)
			}
			if !inRange(s.StartID, MinGuestID, MaxGuestID) {
				v.rep.Add(path+".vm_id_start", fmt.Sprintf("vm_id_start must be %d-%d", MinGuestID, MaxGuestID), s.StartID)
			}
		}

		for i, disk := range entry.Disks {
			if !inRange(disk.SizeGB, MinDiskGB, MaxDiskGB) {
				v.rep.Add(fmt.Sprintf("%s.disks[%d].size_gb", path, i), fmt.Sprintf("size_gb must be %d-%d", MinDiskGB, MaxDiskGB), disk.SizeGB)
			}
		}
		for i, nic := range entry.NICs {
			if nic.VLANID != 0 && !inRange(nic.VLANID, MinVLANID, MaxVLANID) {
				v.rep.Add(fmt.Sprintf("%s.nics[%d].vlan_id", path, i), fmt.Sprintf("vlan_id must be %d-%d", MinVLANID, MaxVLANID), nic.VLANID)
			}
		}
	}
}

func (v *validator) checkNetwork() {
	for _, node := range manifest.SortedKeys(v.m.Network) {
		net := v.m.Network[node]
		path := "network." + node

		if _, ok := v.m.Nodes[node]; !ok {
			v.rep.Add(path, "references unknown node", node)
		}

		for _, name := range manifest.SortedKeys(net.Bonds) {
			bond := net.Bonds[name]
			if len(bond.Slaves) == 0 {
				v.rep.Add(path+".bonds."+name+".slaves", "bond requires at least one slave interface", nil)
			}
			v.checkMTU(path+".bonds."+name+".mtu", bond.MTU)
		}
		for _, name := range manifest.SortedKeys(net.VLANs) {
			vlan := net.VLANs[name]
			if !inRange(vlan.VLANID, MinVLANID, MaxVLANID) {
				v.rep.Add(path+".vlans."+name+".vlan_id", fmt.Sprintf("vlan_id must be %d-%d", MinVLANID, MaxVLANID), vlan.VLANID)
			}
			if vlan.Interface == "" {
				v.rep.Add(path+".vlans."+name+".interface", "interface is required", nil)
			}
			v.checkMTU(path+".vlans."+name+".mtu", vlan.MTU)
		}
		for _, name := range manifest.SortedKeys(net.Bridges) {
			v.checkMTU(path+".bridges."+name+".mtu", net.Bridges[name].MTU)
		}
	}
}

// checkInstances validates the expanded set: derived IDs must stay inside
// the platform range even when the manifest values that produced them were
// individually legal.
func (v *validator) checkInstances(instances map[string]expand.Instance) {
	for _, name := range manifest.SortedKeys(instances) {
		inst := instances[name]
		if inst.ID != 0 && !inRange(inst.ID, MinGuestID, MaxGuestID) {
			v.rep.Add(inst.Origin+".id", fmt.Sprintf("expanded guest ID must be %d-%d", MinGuestID, MaxGuestID), inst.ID)
		}
	}
}

// checkNodeRef reports a violation when an optional node reference is set
// but does not resolve. Empty references are legal everywhere a default
// exists; defaults apply to absent fields, never to invalid ones.
func (v *validator) checkNodeRef(path, node string) {
	if node == "" {
		return
	}
	if _, ok := v.m.Nodes[node]; !ok {
		v.rep.Add(path, "references unknown node", node)
	}
}

func (v *validator) checkMTU(path string, mtu int) {
	if mtu != 0 && !inRange(mtu, MinMTU, MaxMTU) {
		v.rep.Add(path, fmt.Sprintf("mtu must be %d-%d", MinMTU, MaxMTU), mtu)
	}
}
