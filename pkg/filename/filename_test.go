package filename

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "model.safetensors", "modelsafetensors"},
		{"spaces collapse", "my  cool   model", "my-cool-model"},
		{"accents fold", "Mälmo Café", "malmo-cafe"},
		{"special chars dropped", "v1.5-pruned (fp16)!.ckpt", "v15-pruned-fp16ckpt"},
		{"underscores survive", "control_v11p_sd15", "control_v11p_sd15"},
		{"leading trailing trimmed", "--_hello_--", "hello"},
		{"uppercase lowered", "ControlNet-XL", "controlnet-xl"},
		{"non-ascii dropped", "モデル-v2", "v2"},
		{"empty", "", ""},
		{"only junk", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Mälmo Café", "v1.5 final (2)", "control_v11p", "モデル v2", "", "a-b-c",
		"  spaced  out  ", "UPPER_case-Mixed 123",
	}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9_-]*$`)
	inputs := []string{"Mälmo Café!", "v1.5 (fp16)", "モデル", "A B\tC", "__x__"}
	for _, in := range inputs {
		got := Slugify(in)
		if !safe.MatchString(got) {
			t.Errorf("Slugify(%q) = %q contains unsafe characters", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") ||
			strings.HasPrefix(got, "_") || strings.HasSuffix(got, "_") {
			t.Errorf("Slugify(%q) = %q has leading/trailing separator", in, got)
		}
	}
}

func TestSlugifyUnicode(t *testing.T) {
	got := SlugifyUnicode("Mälmo モデル v2")
	if got != "mälmo-モデル-v2" {
		t.Errorf("SlugifyUnicode = %q, want unicode preserved", got)
	}
}

func TestFromHeaders(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		expected    string
		found       bool
	}{
		{"quoted", `attachment; filename="model.safetensors"`, "model.safetensors", true},
		{"unquoted", `attachment; filename=model.ckpt`, "model.ckpt", true},
		{"bare value", `filename=weights.bin`, "weights.bin", true},
		{"no filename param", `attachment`, "", false},
		{"missing header", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.disposition != "" {
				h.Set("Content-Disposition", tt.disposition)
			}
			got, found := FromHeaders(h)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
