// Package compile orchestrates the manifest compilation pipeline:
// load → expand → validate → select. One invocation is a fresh, pure,
// synchronous pass over immutable inputs; there is no cross-run state.
package compile

import (
	"fmt"

	"github.com/imamik/pvefleet/internal/expand"
	"github.com/imamik/pvefleet/internal/manifest"
	"github.com/imamik/pvefleet/internal/report"
	"github.com/imamik/pvefleet/internal/topology"
	"github.com/imamik/pvefleet/internal/validate"
)

// Result is the complete output of one compilation pass.
type Result struct {
	Manifest  *manifest.Manifest
	Defaults  manifest.Defaults
	Instances map[string]expand.Instance
	Networks  *expand.FlatNetwork

	// Report holds every violation found during expansion and validation.
	// A non-empty report blocks the result from provisioning.
	Report *report.Report

	// Topology is the cluster role partition. It is only populated when
	// the report is clean and a control plane exists; otherwise the
	// selection problem is itself part of the report.
	Topology *topology.Topology
}

// Provisionable reports whether the expanded resource set may be handed to
// the provisioning layer.
func (r *Result) Provisionable() bool {
	return r.Report.OK()
}

// Run loads the manifest fragments from the given paths in order and
// compiles them. Load failures abort immediately with an error; everything
// found after a successful load is accumulated in the result's report.
func Run(paths []string) (*Result, error) {
	m, defs, err := manifest.Load(paths)
	if err != nil {
		return nil, fmt.Errorf("manifest load failed: %w", err)
	}
	return compile(m, defs), nil
}

// RunFragments compiles in-memory fragments. It exists for callers and
// tests that already hold the documents.
func RunFragments(fragments []manifest.Fragment) (*Result, error) {
	m, defs, err := manifest.Parse(fragments)
	if err != nil {
		return nil, fmt.Errorf("manifest load failed: %w", err)
	}
	return compile(m, defs), nil
}

func compile(m *manifest.Manifest, defs manifest.Defaults) *Result {
	rep := &report.Report{}

	res := &Result{
		Manifest: m,
		Defaults: defs,
		Report:   rep,
	}

	res.Instances = expand.Fleet(m, defs, rep)
	res.Networks = expand.Network(m, rep)

	validate.Run(m, res.Instances, rep)

	// Role selection only means anything for a clean fleet, and only when
	// the manifest declares a cluster at all.
	if rep.OK() && m.Cluster.Name != "" {
		topo, err := topology.Select(res.Instances, m.Cluster)
		if err != nil {
			rep.Add("cluster", err.Error(), nil)
		} else {
			res.Topology = topo
		}
	}

	return res
}
