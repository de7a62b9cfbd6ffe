// Package topology partitions the validated, expanded fleet into cluster
// roles for the external bootstrap collaborator.
package topology

import (
	"fmt"
	"strings"

	"github.com/imamik/pvefleet/internal/expand"
	"github.com/imamik/pvefleet/internal/manifest"
)

// Topology is the instance-identity-to-role mapping handed to the cluster
// bootstrap collaborator. Addresses are resolved post-provisioning, not
// here.
type Topology struct {
	// BootstrapHead is the control-plane instance used for the initial
	// bootstrap API contact. It is the first control plane in list order.
	BootstrapHead string `json:"bootstrap_head"`

	ControlPlanes []string `json:"control_planes"`
	DataPlanes    []string `json:"data_planes,omitempty"`
}

// Select partitions instance names into control-plane and data-plane
// groups purely by the cluster's name-prefix convention. The lists are
// sorted, so the bootstrap head is stable across runs. A cluster without
// any control plane cannot bootstrap and is a hard error; a cluster
// without data planes is legal.
func Select(instances map[string]expand.Instance, cluster manifest.Cluster) (*Topology, error) {
	cpPrefix := cluster.EffectiveControlPlanePrefix()
	dpPrefix := cluster.EffectiveDataPlanePrefix()

	topo := &Topology{}
	for _, name := range manifest.SortedKeys(instances) {
		switch {
		case strings.HasPrefix(name, cpPrefix):
			topo.ControlPlanes = append(topo.ControlPlanes, name)
		case strings.HasPrefix(name, dpPrefix):
			topo.DataPlanes = append(topo.DataPlanes, name)
		}
	}

	if len(topo.ControlPlanes) == 0 {
		return nil, fmt.Errorf("no control-plane instances match prefix %q: cluster cannot bootstrap", cpPrefix)
	}
	topo.BootstrapHead = topo.ControlPlanes[0]
	return topo, nil
}
