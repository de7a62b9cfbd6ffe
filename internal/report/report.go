// Package report defines the structured violation report shared by the
// manifest compiler stages.
//
// Violations are data, not errors: every stage that finds problems appends
// them to one report so a manifest author sees all issues in a single run
// instead of fixing them one at a time. Only manifest load failures are
// surfaced as plain errors, because nothing useful can be compiled from a
// malformed fragment.
package report

import (
	"fmt"
	"sort"
	"strings"
)

// Violation describes a single rule violation found during compilation.
type Violation struct {
	// Path is the manifest location of the offending field,
	// e.g. "fleet.worker.count" or "network.pve-1.vlans.vlan40.vlan_id".
	Path string `json:"path"`

	// Rule is a short human-readable statement of the violated rule.
	Rule string `json:"rule"`

	// Value is the offending value, rendered as a string.
	Value string `json:"value"`
}

func (v Violation) String() string {
	if v.Value == "" {
		return fmt.Sprintf("%s: %s", v.Path, v.Rule)
	}
	return fmt.Sprintf("%s: %s (got %s)", v.Path, v.Rule, v.Value)
}

// Report accumulates violations across compilation stages.
type Report struct {
	violations []Violation
}

// Add records a violation.
func (r *Report) Add(path, rule string, value any) {
	val := ""
	if value != nil {
		val = fmt.Sprintf("%v", value)
	}
	r.violations = append(r.violations, Violation{Path: path, Rule: rule, Value: val})
}

// OK reports whether no violations were recorded. An empty report is the
// signal that the expanded resource set is safe to hand to provisioning.
func (r *Report) OK() bool {
	return len(r.violations) == 0
}

// Len returns the number of recorded violations.
func (r *Report) Len() int {
	return len(r.violations)
}

// Violations returns the recorded violations sorted by path. Sorting keeps
// output stable regardless of map iteration order during validation.
func (r *Report) Violations() []Violation {
	out := make([]Violation, len(r.violations))
	copy(out, r.violations)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Err returns the report as a single error, or nil when the report is empty.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation violation(s):", r.Len())
	for _, v := range r.Violations() {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return fmt.Errorf("%s", b.String())
}
