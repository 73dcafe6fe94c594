package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs a fresh command tree and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	registerSubcommands(root)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zoo.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootWithoutSubcommandShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("bare invocation must succeed: %v", err)
	}
	if !strings.Contains(out, "zoomaker install") {
		t.Errorf("help output missing examples: %q", out)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "zoomaker") {
		t.Errorf("version output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "zoomaker") {
		t.Errorf("version output = %q", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := executeCommand(t, "version", "--json", "--extended")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	if !strings.Contains(out, `"version"`) || !strings.Contains(out, `"go_version"`) {
		t.Errorf("json output = %q", out)
	}
}

func TestValidateCommandValidManifest(t *testing.T) {
	path := writeManifest(t, `
name: zoo
resources:
  models:
    - name: m
      src: owner/repo/file.bin
      type: huggingface
      install_to: ./models
scripts:
  start: echo hi
`)
	out, err := executeCommand(t, "validate", "-f", path)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateCommandSchemaViolation(t *testing.T) {
	path := writeManifest(t, `
name: zoo
resources:
  models:
    - name: m
      src: owner/repo/file.bin
      type: smoke-signal
      install_to: ./models
`)
	out, err := executeCommand(t, "validate", "-f", path)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if !strings.Contains(out, "type") {
		t.Errorf("output should name the offending field: %q", out)
	}
}

func TestInstallCommandRejectsInvalidManifest(t *testing.T) {
	path := writeManifest(t, "version: \"1\"\nresources: {}\n")
	if _, err := executeCommand(t, "install", "-f", path); err == nil {
		t.Fatal("install must fail on a manifest without a name")
	}
}

func TestInstallCommandMissingManifest(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := executeCommand(t, "install", "-f", missing); err == nil {
		t.Fatal("install must fail when the manifest file is absent")
	}
}

func TestRunCommandUnknownScript(t *testing.T) {
	path := writeManifest(t, `
name: zoo
resources: {}
scripts:
  start: echo hi
`)
	// An unknown script name lists alternatives and exits zero.
	if _, err := executeCommand(t, "run", "definitely-not-there", "-f", path); err != nil {
		t.Fatalf("unknown script must not be an error: %v", err)
	}
}

func TestRunCommandRequiresName(t *testing.T) {
	if _, err := executeCommand(t, "run"); err == nil {
		t.Fatal("run without a script name must fail")
	}
}
