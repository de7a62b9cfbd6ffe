package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/pvefleet/internal/compile"
	"github.com/imamik/pvefleet/internal/expand"
	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/topology"
)

// resourceSet is the document handed to the provisioning layer. Every
// record carries enough information for a create call without further
// manifest lookups: templates, cloud-init configs and the cluster section
// are emitted with all effective values materialized, not as authored.
type resourceSet struct {
	Instances        map[string]expand.Instance   `json:"instances"`
	Networks         *expand.FlatNetwork          `json:"networks,omitempty"`
	Images           map[string]imageArtifact     `json:"images,omitempty"`
	Templates        map[string]templateSpec      `json:"templates,omitempty"`
	CloudInitConfigs map[string]cloudInitArtifact `json:"cloud_init_configs,omitempty"`
	Cluster          *clusterSpec                 `json:"cluster,omitempty"`
	Topology         *topology.Topology           `json:"topology,omitempty"`
}

// imageArtifact is one image with all derived fields materialized.
type imageArtifact struct {
	TargetNode      string `json:"target_node"`
	TargetDatastore string `json:"target_datastore"`
	Type            string `json:"type"`
	Filename        string `json:"filename"`
	URL             string `json:"url,omitempty"`
}

// templateSpec is one guest template with placement, storage and machine
// type resolved. Instances reference these by name.
type templateSpec struct {
	Kind             manifest.GuestKind `json:"kind"`
	Node             string             `json:"node"`
	Image            string             `json:"image"`
	Cores            int                `json:"cores"`
	MemoryMB         int                `json:"memory_mb"`
	DiskGB           int                `json:"disk_gb"`
	Datastore        string             `json:"datastore"`
	CloudInitProfile string             `json:"cloud_init_profile,omitempty"`
	BIOS             string             `json:"bios,omitempty"`
	MachineType      string             `json:"machine_type,omitempty"`
}

// cloudInitArtifact is one cloud-init document with its storage location
// resolved.
type cloudInitArtifact struct {
	TargetNode      string `json:"target_node"`
	TargetDatastore string `json:"target_datastore"`
	Path            string `json:"path"`
}

// clusterSpec is the cluster section with prefixes and versions resolved.
type clusterSpec struct {
	Name               string `json:"name"`
	ControlPlanePrefix string `json:"control_plane_prefix"`
	DataPlanePrefix    string `json:"data_plane_prefix"`
	TalosVersion       string `json:"talos_version,omitempty"`
	KubernetesVersion  string `json:"kubernetes_version,omitempty"`
}

// Expand compiles the manifest fragments and, when the manifest validates
// cleanly, writes the expanded resource set to the output path. A manifest
// with violations produces the report and no output artifact.
func Expand(fragments []string, output, format string, noColor bool) error {
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported output format %q: must be yaml or json", format)
	}

	res, err := compile.Run(fragments)
	if err != nil {
		return err
	}

	r := newRenderer(noColor)
	if !res.Provisionable() {
		fmt.Fprint(os.Stderr, r.renderReport(res.Report))
		return errors.New("manifest validation failed; no output written")
	}

	doc := buildResourceSet(res)
	data, err := encode(doc, format)
	if err != nil {
		return err
	}

	if output == "-" || output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write resource set: %w", err)
	}
	fmt.Fprint(os.Stderr, r.renderSummary(res))
	return nil
}

func buildResourceSet(res *compile.Result) resourceSet {
	doc := resourceSet{
		Instances: res.Instances,
		Networks:  res.Networks,
		Topology:  res.Topology,
	}

	if len(res.Manifest.Images) > 0 {
		doc.Images = make(map[string]imageArtifact, len(res.Manifest.Images))
		for _, name := range manifest.SortedKeys(res.Manifest.Images) {
			img := res.Manifest.Images[name]
			doc.Images[name] = imageArtifact{
				TargetNode:      res.Defaults.Node(img.TargetNode),
				TargetDatastore: res.Defaults.FileDatastore(img.TargetDatastore),
				Type:            img.Type(),
				Filename:        img.Filename(res.Manifest.Versions),
				URL:             img.URL(res.Manifest.Versions),
			}
		}
	}

	if len(res.Manifest.Templates) > 0 {
		doc.Templates = make(map[string]templateSpec, len(res.Manifest.Templates))
		for _, name := range manifest.SortedKeys(res.Manifest.Templates) {
			tpl := res.Manifest.Templates[name]
			doc.Templates[name] = templateSpec{
				Kind:             tpl.Kind,
				Node:             res.Defaults.Node(tpl.Node),
				Image:            tpl.Image,
				Cores:            tpl.Cores,
				MemoryMB:         tpl.MemoryMB,
				DiskGB:           tpl.DiskGB,
				Datastore:        res.Defaults.BlockDatastore(tpl.Datastore),
				CloudInitProfile: tpl.CloudInitProfile,
				BIOS:             tpl.BIOS,
				MachineType:      tpl.EffectiveMachineType(),
			}
		}
	}

	if len(res.Manifest.CloudInitConfigs) > 0 {
		doc.CloudInitConfigs = make(map[string]cloudInitArtifact, len(res.Manifest.CloudInitConfigs))
		for _, name := range manifest.SortedKeys(res.Manifest.CloudInitConfigs) {
			cfg := res.Manifest.CloudInitConfigs[name]
			doc.CloudInitConfigs[name] = cloudInitArtifact{
				TargetNode:      res.Defaults.Node(cfg.TargetNode),
				TargetDatastore: res.Defaults.FileDatastore(cfg.TargetDatastore),
				Path:            cfg.Path,
			}
		}
	}

	if res.Manifest.Cluster.Name != "" {
		c := res.Manifest.Cluster
		doc.Cluster = &clusterSpec{
			Name:               c.Name,
			ControlPlanePrefix: c.EffectiveControlPlanePrefix(),
			DataPlanePrefix:    c.EffectiveDataPlanePrefix(),
			TalosVersion:       c.EffectiveTalosVersion(res.Manifest),
			KubernetesVersion:  c.KubernetesVersion,
		}
	}

	return doc
}

func encode(doc resourceSet, format string) ([]byte, error) {
	if format == "json" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource set: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := sigsyaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource set: %w", err)
	}
	return data, nil
}
