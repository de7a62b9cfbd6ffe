package naming

import "fmt"

// Naming functions for expanded resources.
// Every derived name is a pure function of manifest identifiers so repeated
// expansions of the same manifest always produce the same names.

// BatchMember names the index-th member of a batch fleet entry (1-based).
func BatchMember(entryKey string, index int) string {
	return fmt.Sprintf("%s_%d", entryKey, index)
}

// NetworkElement names a flattened network element owned by a node.
func NetworkElement(node, element string) string {
	return node + "_" + element
}
