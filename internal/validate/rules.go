package validate

import "regexp"

// Numeric bounds enforced by the validator. VLAN and MTU bounds follow the
// 802.1Q and Ethernet specs; the guest ID ceiling is the largest ID the
// MAC derivation scheme can encode.
const (
	MinCores = 1
	MaxCores = 128

	MinMemoryMB = 64
	MaxMemoryMB = 262144

	MinDiskGB = 1
	MaxDiskGB = 8192

	MinVLANID = 1
	MaxVLANID = 4094

	MinMTU = 68
	MaxMTU = 9000

	MinGuestID = 100
	MaxGuestID = 0xFFFFFF
)

// namePattern is the rule every manifest key must satisfy: lowercase
// alphanumeric plus underscore, starting with a letter. Fleet keys double
// as guest hostnames, so the character set is deliberately hostname-safe.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// validName reports whether a manifest key satisfies the naming rule.
func validName(name string) bool {
	return namePattern.MatchString(name)
}

// inRange reports whether v lies in [lo, hi].
func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
