package manifest

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Fragment is one manifest document with the name it is reported under in
// errors (usually its file path).
type Fragment struct {
	Name string
	Data []byte
}

// Load reads the fragment files in the given order, merges them and decodes
// the effective manifest tree. Fragment order is an explicit input: merge
// results depend only on the order of paths, never on filesystem iteration
// order. Any malformed fragment fails the whole load; a partially merged
// tree is never returned.
func Load(paths []string) (*Manifest, Defaults, error) {
	fragments := make([]Fragment, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, Defaults{}, fmt.Errorf("failed to read manifest fragment: %w", err)
		}
		fragments = append(fragments, Fragment{Name: path, Data: data})
	}
	return Parse(fragments)
}

// Parse merges the fragments in order (later fragments override earlier
// ones, deep-merged per section) and decodes the result into the typed
// manifest. The resolved defaults object is extracted once and returned
// separately; it is never re-merged into the tree.
func Parse(fragments []Fragment) (*Manifest, Defaults, error) {
	if len(fragments) == 0 {
		return nil, Defaults{}, fmt.Errorf("at least one manifest fragment is required")
	}

	merged := map[string]any{}
	for _, frag := range fragments {
		var doc map[string]any
		if err := yaml.Unmarshal(frag.Data, &doc); err != nil {
			return nil, Defaults{}, fmt.Errorf("fragment %s: failed to parse YAML: %w", frag.Name, err)
		}
		if err := mergo.Merge(&merged, doc, mergo.WithOverride); err != nil {
			return nil, Defaults{}, fmt.Errorf("fragment %s: failed to merge: %w", frag.Name, err)
		}
	}

	m, err := decode(merged)
	if err != nil {
		return nil, Defaults{}, err
	}
	return m, ResolveDefaults(m.Defaults), nil
}

// decode converts the merged raw tree into the typed manifest. Unknown
// keys are a schema violation and fail the load with the offending paths,
// matching the rule that defaults apply to absent fields, never to
// misspelled ones.
func decode(merged map[string]any) (*Manifest, error) {
	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &m,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest decoder: %w", err)
	}
	if err := dec.Decode(merged); err != nil {
		return nil, fmt.Errorf("manifest does not match expected schema: %w", err)
	}
	return &m, nil
}
