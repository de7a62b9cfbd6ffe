package manifest

import (
	"errors"
	"fmt"
)

// Manifest is the effective configuration tree produced by merging all
// manifest fragments. It is built once by Load and treated as read-only by
// every downstream stage.
type Manifest struct {
	Defaults          DefaultsSection             `yaml:"defaults" mapstructure:"defaults"`
	Nodes             map[string]Node             `yaml:"nodes" mapstructure:"nodes"`
	Versions          map[string]string           `yaml:"versions" mapstructure:"versions"`
	Images            map[string]Image            `yaml:"images" mapstructure:"images"`
	Templates         map[string]Template         `yaml:"templates" mapstructure:"templates"`
	CloudInitProfiles map[string]CloudInitProfile `yaml:"cloud_init_profiles" mapstructure:"cloud_init_profiles"`
	CloudInitConfigs  map[string]CloudInitConfig  `yaml:"cloud_init_configs" mapstructure:"cloud_init_configs"`
	Fleet             map[string]FleetEntry       `yaml:"fleet" mapstructure:"fleet"`
	Network           map[string]NodeNetwork      `yaml:"network" mapstructure:"network"`
	Cluster           Cluster                     `yaml:"cluster" mapstructure:"cluster"`
}

// DefaultsSection is the raw cluster-defaults section as authored. The
// resolved, fallback-applied form handed to the other stages is Defaults.
type DefaultsSection struct {
	TargetNode   string `yaml:"target_node" mapstructure:"target_node"`
	FileStorage  string `yaml:"file_storage" mapstructure:"file_storage"`
	BlockStorage string `yaml:"block_storage" mapstructure:"block_storage"`
}

// Node is one hypervisor host. Nodes are referenced by name from templates,
// fleet entries, images and network sections.
type Node struct {
	Address string `yaml:"address" mapstructure:"address"`
	SSHPort int    `yaml:"ssh_port" mapstructure:"ssh_port"`
}

// Template is a reusable hardware+image+cloud-init pattern. Templates are
// never provisioned directly; fleet entries clone from them.
type Template struct {
	Kind             GuestKind `yaml:"kind" mapstructure:"kind"`
	Node             string    `yaml:"node" mapstructure:"node"`
	Image            string    `yaml:"image" mapstructure:"image"`
	Cores            int       `yaml:"cores" mapstructure:"cores"`
	MemoryMB         int       `yaml:"memory_mb" mapstructure:"memory_mb"`
	DiskGB           int       `yaml:"disk_gb" mapstructure:"disk_gb"`
	Datastore        string    `yaml:"datastore" mapstructure:"datastore"`
	CloudInitProfile string    `yaml:"cloud_init_profile" mapstructure:"cloud_init_profile"`
	BIOS             string    `yaml:"bios" mapstructure:"bios"`
	MachineType      string    `yaml:"machine_type" mapstructure:"machine_type"`
}

// EffectiveMachineType returns the machine type, deriving q35 for OVMF
// templates that do not set one explicitly.
func (t Template) EffectiveMachineType() string {
	if t.MachineType == "" && t.BIOS == "ovmf" {
		return "q35"
	}
	return t.MachineType
}

// CloudInitProfile bundles references to the four cloud-init document
// kinds. Each field names an entry in cloud_init_configs; empty means the
// document kind is not used.
type CloudInitProfile struct {
	UserData    string `yaml:"user_data" mapstructure:"user_data"`
	VendorData  string `yaml:"vendor_data" mapstructure:"vendor_data"`
	NetworkData string `yaml:"network_data" mapstructure:"network_data"`
	MetaData    string `yaml:"meta_data" mapstructure:"meta_data"`
}

// References returns the non-empty config references with the field name
// they were declared under.
func (p CloudInitProfile) References() map[string]string {
	refs := make(map[string]string, 4)
	for field, ref := range map[string]string{
		"user_data":    p.UserData,
		"vendor_data":  p.VendorData,
		"network_data": p.NetworkData,
		"meta_data":    p.MetaData,
	} {
		if ref != "" {
			refs[field] = ref
		}
	}
	return refs
}

// CloudInitConfig is one cloud-init document stored on a hypervisor node.
type CloudInitConfig struct {
	TargetNode      string `yaml:"target_node" mapstructure:"target_node"`
	TargetDatastore string `yaml:"target_datastore" mapstructure:"target_datastore"`
	Path            string `yaml:"path" mapstructure:"path"`
}

// GuestKind distinguishes full VMs from containers.
type GuestKind string

const (
	KindVM        GuestKind = "vm"
	KindContainer GuestKind = "container"
)

// IsValid returns true if the kind is a known guest kind.
func (k GuestKind) IsValid() bool {
	switch k {
	case KindVM, KindContainer:
		return true
	default:
		return false
	}
}

// BatchLimit returns the maximum instance count of one batch entry for
// this kind. Containers are ceilinged lower than VMs.
func (k GuestKind) BatchLimit() int {
	if k == KindContainer {
		return 50
	}
	return 100
}

// Disk is one additional disk attached to a fleet entry.
type Disk struct {
	SizeGB    int    `yaml:"size_gb" mapstructure:"size_gb" json:"size_gb"`
	Datastore string `yaml:"datastore" mapstructure:"datastore" json:"datastore"`
	Interface string `yaml:"interface" mapstructure:"interface" json:"interface,omitempty"`
}

// NIC is one network interface attached to a fleet entry. An explicit MAC
// always wins over derivation.
type NIC struct {
	Bridge   string `yaml:"bridge" mapstructure:"bridge" json:"bridge"`
	VLANID   int    `yaml:"vlan_id" mapstructure:"vlan_id" json:"vlan_id,omitempty"`
	MAC      string `yaml:"mac" mapstructure:"mac" json:"mac,omitempty"`
	Firewall bool   `yaml:"firewall" mapstructure:"firewall" json:"firewall,omitempty"`
}

// FleetEntry is one manifest-authored logical group of guests. An entry is
// either a single (count absent or zero) or a batch (count > 0); the two
// shapes have disjoint ID fields, resolved once by Shape.
type FleetEntry struct {
	Kind       GuestKind `yaml:"kind" mapstructure:"kind"`
	Template   string    `yaml:"template" mapstructure:"template"`
	Count      int       `yaml:"count" mapstructure:"count"`
	VMID       int       `yaml:"vm_id" mapstructure:"vm_id"`
	VMIDStart  int       `yaml:"vm_id_start" mapstructure:"vm_id_start"`
	TargetNode string    `yaml:"target_node" mapstructure:"target_node"`
	Disks      []Disk    `yaml:"disks" mapstructure:"disks"`
	NICs       []NIC     `yaml:"nics" mapstructure:"nics"`
	Protected  bool      `yaml:"protected" mapstructure:"protected"`
}

// Shape is the resolved single-or-batch variant of a fleet entry.
type Shape interface {
	isShape()
}

// Single expands to exactly one instance named after the entry key.
// ID zero means the ID is left to external allocation.
type Single struct {
	ID int
}

// Batch expands to Count instances with sequential IDs from StartID.
type Batch struct {
	Count   int
	StartID int
}

func (Single) isShape() {}
func (Batch) isShape()  {}

// Shape resolves the entry into its tagged variant. A partially batch
// entry is invalid as a whole: no field of it may be interpreted before
// the mix is fixed.
func (e FleetEntry) Shape() (Shape, error) {
	switch {
	case e.Count < 0:
		return nil, fmt.Errorf("count must not be negative, got %d", e.Count)
	case e.Count == 0:
		if e.VMIDStart != 0 {
			return nil, errors.New("vm_id_start is only valid on batch entries (count > 0)")
		}
		return Single{ID: e.VMID}, nil
	default:
		if e.VMID != 0 {
			return nil, errors.New("vm_id is only valid on single entries; batches derive IDs from vm_id_start")
		}
		if e.VMIDStart <= 0 {
			return nil, errors.New("batch entries (count > 0) require vm_id_start")
		}
		return Batch{Count: e.Count, StartID: e.VMIDStart}, nil
	}
}

// Bond is a link aggregation over physical interfaces on one node.
type Bond struct {
	Slaves []string `yaml:"slaves" mapstructure:"slaves" json:"slaves"`
	Mode   string   `yaml:"mode" mapstructure:"mode" json:"mode,omitempty"`
	MTU    int      `yaml:"mtu" mapstructure:"mtu" json:"mtu,omitempty"`
}

// VLAN is a tagged sub-interface on one node.
type VLAN struct {
	Interface string `yaml:"interface" mapstructure:"interface" json:"interface"`
	VLANID    int    `yaml:"vlan_id" mapstructure:"vlan_id" json:"vlan_id"`
	MTU       int    `yaml:"mtu" mapstructure:"mtu" json:"mtu,omitempty"`
}

// Bridge is a software bridge guests attach to on one node.
type Bridge struct {
	Ports     []string `yaml:"ports" mapstructure:"ports" json:"ports,omitempty"`
	CIDR      string   `yaml:"cidr" mapstructure:"cidr" json:"cidr,omitempty"`
	Gateway   string   `yaml:"gateway" mapstructure:"gateway" json:"gateway,omitempty"`
	MTU       int      `yaml:"mtu" mapstructure:"mtu" json:"mtu,omitempty"`
	VLANAware bool     `yaml:"vlan_aware" mapstructure:"vlan_aware" json:"vlan_aware,omitempty"`
}

// NodeNetwork groups the network elements declared for one node.
type NodeNetwork struct {
	Bonds   map[string]Bond   `yaml:"bonds" mapstructure:"bonds"`
	VLANs   map[string]VLAN   `yaml:"vlans" mapstructure:"vlans"`
	Bridges map[string]Bridge `yaml:"bridges" mapstructure:"bridges"`
}

// Cluster describes the Kubernetes cluster assembled from the expanded
// fleet. Role membership is selected purely by instance-name prefix.
type Cluster struct {
	Name               string `yaml:"name" mapstructure:"name"`
	ControlPlanePrefix string `yaml:"control_plane_prefix" mapstructure:"control_plane_prefix"`
	DataPlanePrefix    string `yaml:"data_plane_prefix" mapstructure:"data_plane_prefix"`
	TalosVersion       string `yaml:"talos_version" mapstructure:"talos_version"`
	KubernetesVersion  string `yaml:"kubernetes_version" mapstructure:"kubernetes_version"`
}

// Default role prefixes used when the cluster section leaves them unset.
const (
	DefaultControlPlanePrefix = "talos_cp"
	DefaultDataPlanePrefix    = "talos_dp"
)

// EffectiveControlPlanePrefix returns the configured control-plane prefix
// or the convention default.
func (c Cluster) EffectiveControlPlanePrefix() string {
	if c.ControlPlanePrefix != "" {
		return c.ControlPlanePrefix
	}
	return DefaultControlPlanePrefix
}

// EffectiveDataPlanePrefix returns the configured data-plane prefix or the
// convention default.
func (c Cluster) EffectiveDataPlanePrefix() string {
	if c.DataPlanePrefix != "" {
		return c.DataPlanePrefix
	}
	return DefaultDataPlanePrefix
}

// EffectiveTalosVersion returns the explicit Talos version, falling back to
// the resolved release of the first Talos image in the manifest. The
// fallback keeps a single source of truth when the cluster section omits
// the version.
func (c Cluster) EffectiveTalosVersion(m *Manifest) string {
	if c.TalosVersion != "" {
		return c.TalosVersion
	}
	for _, name := range sortedKeys(m.Images) {
		img := m.Images[name]
		if img.Distro == DistroTalos {
			return img.ResolvedRelease(m.Versions)
		}
	}
	return ""
}
