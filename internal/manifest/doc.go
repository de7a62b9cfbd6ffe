// Package manifest defines the homelab infrastructure manifest schema and
// loads ordered manifest fragments into one effective, read-only
// configuration tree plus a resolved cluster-defaults object.
package manifest
