package manifest

import (
	"errors"
	"strings"
	"testing"
)

func validResource() Resource {
	return Resource{
		Name:      "model",
		Src:       "owner/repo/file.bin",
		Type:      TypeHuggingFace,
		InstallTo: "./models",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Manifest)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid manifest",
			mutate: func(m *Manifest) {},
		},
		{
			name:      "missing name",
			mutate:    func(m *Manifest) { m.Name = "" },
			wantField: "name",
			wantMsg:   "'name' is missing",
		},
		{
			name:      "missing resources",
			mutate:    func(m *Manifest) { m.Resources = nil },
			wantField: "resources",
			wantMsg:   "'resources' is missing",
		},
		{
			name:      "resource missing name",
			mutate:    func(m *Manifest) { m.Resources[0].Resources[0].Name = "" },
			wantField: "name",
			wantMsg:   "'name' attribute",
		},
		{
			name:      "resource missing src",
			mutate:    func(m *Manifest) { m.Resources[0].Resources[0].Src = "" },
			wantField: "src",
			wantMsg:   "'src' attribute",
		},
		{
			name:      "resource missing type",
			mutate:    func(m *Manifest) { m.Resources[0].Resources[0].Type = "" },
			wantField: "type",
			wantMsg:   "'type' attribute",
		},
		{
			name:      "resource missing install_to",
			mutate:    func(m *Manifest) { m.Resources[0].Resources[0].InstallTo = "" },
			wantField: "install_to",
			wantMsg:   "'install_to' attribute",
		},
		{
			name:      "unknown type",
			mutate:    func(m *Manifest) { m.Resources[0].Resources[0].Type = "ftp" },
			wantField: "type",
			wantMsg:   "unknown resource type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{
				Name: "zoo",
				Resources: Groups{
					{Name: "models", Resources: []Resource{validResource()}},
				},
			}
			tt.mutate(m)

			err := m.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid manifest, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("message %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateEmptyResourcesAllowed(t *testing.T) {
	m, err := Parse([]byte("name: zoo\nresources: {}\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("an empty resources mapping is legitimate: %v", err)
	}
}

func TestValidateStopsAtFirstError(t *testing.T) {
	// Both src and install_to missing: the src rule fires, install_to is never reached.
	m := &Manifest{
		Name: "zoo",
		Resources: Groups{
			{Name: "models", Resources: []Resource{{Name: "r", Type: TypeGit}}},
		},
	}
	err := m.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != "src" {
		t.Errorf("field = %q, want src (checks run in declaration order)", verr.Field)
	}
}

func TestValidateSchema(t *testing.T) {
	good := []byte(`
name: zoo
resources:
  models:
    - name: r
      src: owner/repo/file.bin
      type: huggingface
      install_to: ./models
`)
	res, err := ValidateSchema(good)
	if err != nil {
		t.Fatalf("ValidateSchema failed: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, got issues: %+v", res.Issues)
	}

	bad := []byte(`
name: zoo
resources:
  models:
    - name: r
      src: owner/repo/file.bin
      type: carrier-pigeon
      install_to: ./models
`)
	res, err = ValidateSchema(bad)
	if err != nil {
		t.Fatalf("ValidateSchema failed: %v", err)
	}
	if res.Valid {
		t.Fatal("expected schema violation for bad type")
	}
	found := false
	for _, issue := range res.Issues {
		if strings.Contains(issue.Path, "type") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an issue naming the type field, got %+v", res.Issues)
	}
}
