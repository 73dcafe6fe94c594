// Package manifest defines the typed model for zoo.yaml documents and the
// validation rules every document must pass before any fetch is attempted.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Type selects the fetch strategy for a resource. The set is closed: dispatch
// over it is exhaustive and anything else is rejected at validation time.
type Type string

const (
	TypeHuggingFace Type = "huggingface"
	TypeGit         Type = "git"
	TypeDownload    Type = "download"
)

// Valid reports whether t is one of the recognized resource types.
func (t Type) Valid() bool {
	switch t {
	case TypeHuggingFace, TypeGit, TypeDownload:
		return true
	}
	return false
}

// Manifest is the root zoo.yaml document. It is read-only after loading;
// installation only produces filesystem side effects.
type Manifest struct {
	Name      string  `yaml:"name"`
	Version   string  `yaml:"version"`
	Resources Groups  `yaml:"resources"`
	Scripts   Scripts `yaml:"scripts"`
}

// Group is a named bucket of resources. Grouping is organizational only; it
// never affects fetch behavior, just reporting order.
type Group struct {
	Name      string
	Resources []Resource
}

// Resource is one fetch unit.
type Resource struct {
	Name      string `yaml:"name"`
	Src       string `yaml:"src"`
	Type      Type   `yaml:"type"`
	InstallTo string `yaml:"install_to"`
	Revision  string `yaml:"revision"`
	RenameTo  string `yaml:"rename_to"`
	APIKey    string `yaml:"api_key"`
}

// resourceDoc avoids recursing into Resource.UnmarshalYAML.
type resourceDoc Resource

var resourceFields = map[string]bool{
	"name": true, "src": true, "type": true, "install_to": true,
	"revision": true, "rename_to": true, "api_key": true,
}

// UnmarshalYAML decodes a resource, rejecting unknown fields. Node-level
// decoding bypasses the decoder's KnownFields setting, so the check is
// explicit here.
func (r *Resource) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("a resource must be a mapping (line %d)", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if key := node.Content[i].Value; !resourceFields[key] {
			return fmt.Errorf("unknown resource field %q (line %d)", key, node.Content[i].Line)
		}
	}
	var doc resourceDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	*r = Resource(doc)
	return nil
}

// Groups preserves the declaration order of resource groups. A plain Go map
// would scramble it, and the order determines installation order.
type Groups []Group

// UnmarshalYAML decodes the resources mapping keeping document order.
func (g *Groups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("'resources' must be a mapping of group names to resource lists (line %d)", node.Line)
	}
	out := make(Groups, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid group name: %w", err)
		}
		var resources []Resource
		if err := node.Content[i+1].Decode(&resources); err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}
		out = append(out, Group{Name: name, Resources: resources})
	}
	*g = out
	return nil
}

// Script is one named shell command from the scripts section.
type Script struct {
	Name    string
	Command string
}

// Scripts preserves the declaration order of manifest scripts.
type Scripts []Script

// UnmarshalYAML decodes the scripts mapping keeping document order.
func (s *Scripts) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("'scripts' must be a mapping of script names to shell commands (line %d)", node.Line)
	}
	out := make(Scripts, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, command string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid script name: %w", err)
		}
		if err := node.Content[i+1].Decode(&command); err != nil {
			return fmt.Errorf("script %q: %w", name, err)
		}
		out = append(out, Script{Name: name, Command: command})
	}
	*s = out
	return nil
}

// Lookup returns the command registered under name.
func (s Scripts) Lookup(name string) (string, bool) {
	for _, script := range s {
		if script.Name == name {
			return script.Command, true
		}
	}
	return "", false
}

// ResourceCount returns the total number of resources across all groups.
func (m *Manifest) ResourceCount() int {
	n := 0
	for _, g := range m.Resources {
		n += len(g.Resources)
	}
	return n
}
