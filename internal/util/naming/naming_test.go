package naming

import "testing"

func TestBatchMember(t *testing.T) {
	t.Parallel()
	if got := BatchMember("worker", 1); got != "worker_1" {
		t.Errorf("BatchMember() = %q, want worker_1", got)
	}
	if got := BatchMember("worker", 12); got != "worker_12" {
		t.Errorf("BatchMember() = %q, want worker_12", got)
	}
}

func TestNetworkElement(t *testing.T) {
	t.Parallel()
	if got := NetworkElement("pve-1", "vmbr0"); got != "pve-1_vmbr0" {
		t.Errorf("NetworkElement() = %q, want pve-1_vmbr0", got)
	}
}
