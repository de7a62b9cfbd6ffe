// Package macaddr derives deterministic MAC addresses for guest NICs.
//
// The derived address encodes the guest's numeric ID and NIC index, so a
// guest keeps the same MAC across destroy/recreate cycles and DHCP leases
// stay stable. Layout:
//
//	02:<kind>:<id hi>:<id mid>:<id lo>:<nic>
//
// The leading 0x02 marks the address as locally administered. The second
// octet tags the guest kind (VM or container), the middle three octets are
// the big-endian guest ID, and the last octet is the NIC index.
package macaddr

import "fmt"

// Kind tags occupy the second octet of a derived address.
const (
	KindVM        = 0x01
	KindContainer = 0x02
)

// MaxID is the largest guest ID representable in the three ID octets.
const MaxID = 0xFFFFFF

// MaxNIC is the largest NIC index representable in the final octet.
const MaxNIC = 0xFF

// Derive computes the MAC address for the given (kind, id, nic) triple.
// The result is fully determined by its inputs. Derive never wraps: an ID
// or NIC index outside the encodable range is an error, not a truncated
// address that would silently collide with another guest.
func Derive(kind byte, id, nic int) (string, error) {
	if id < 0 || id > MaxID {
		return "", fmt.Errorf("guest ID %d outside encodable range [0, %d]", id, MaxID)
	}
	if nic < 0 || nic > MaxNIC {
		return "", fmt.Errorf("NIC index %d outside encodable range [0, %d]", nic, MaxNIC)
	}
	return fmt.Sprintf("02:%02x:%02x:%02x:%02x:%02x",
		kind, id>>16&0xFF, id>>8&0xFF, id&0xFF, nic), nil
}
