package manifest

import "fmt"

// ValidationError identifies the first rule a manifest failed. Validation is
// fail-fast: the walk stops at the first violation so the user gets one
// precise message instead of a wall of text.
type ValidationError struct {
	Group    string // group containing the offending resource, if any
	Resource string // resource name, or its index when the name is missing
	Field    string // the missing or invalid field
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Group == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (group %q, resource %s)", e.Message, e.Group, e.Resource)
}

// Validate checks the manifest shape required before any fetch may run:
// the top-level 'name' and 'resources' keys, the four required fields of
// every resource, and the resource type. Pure check, no side effects.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return &ValidationError{
			Field:   "name",
			Message: "'name' is missing in the manifest",
		}
	}
	if m.Resources == nil {
		return &ValidationError{
			Field:   "resources",
			Message: "'resources' is missing in the manifest",
		}
	}
	for _, group := range m.Resources {
		for i, r := range group.Resources {
			label := r.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			switch {
			case r.Name == "":
				return &ValidationError{
					Group: group.Name, Resource: label, Field: "name",
					Message: "resource must have a 'name' attribute",
				}
			case r.Src == "":
				return &ValidationError{
					Group: group.Name, Resource: label, Field: "src",
					Message: "resource must have a 'src' attribute",
				}
			case r.Type == "":
				return &ValidationError{
					Group: group.Name, Resource: label, Field: "type",
					Message: "resource must have a 'type' attribute",
				}
			case r.InstallTo == "":
				return &ValidationError{
					Group: group.Name, Resource: label, Field: "install_to",
					Message: "resource must have an 'install_to' attribute",
				}
			case !r.Type.Valid():
				return &ValidationError{
					Group: group.Name, Resource: label, Field: "type",
					Message: fmt.Sprintf("unknown resource type: %q (expected huggingface, git or download)", r.Type),
				}
			}
		}
	}
	return nil
}
