package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	valid bool
}

func (s *sample) Validate() error {
	s.valid = true
	if s.Port < 0 {
		return errors.New("port must not be negative")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "menu")
	path := writeConfig(t, "name: ${SAMPLE_NAME}\nport: 9000\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "menu" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
	if !s.valid {
		t.Error("Validate was not called")
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, "port: -1\n")
	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if s.Name != "default" || s.Port != 1 {
		t.Errorf("defaults changed: %+v", s)
	}
	if !s.valid {
		t.Error("Validate was not called")
	}
}

func TestLoadOptional_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, "port: 7000\n")
	s := sample{Name: "default", Port: 1}
	if err := LoadOptional(path, &s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if s.Name != "default" || s.Port != 7000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "name: x\nprot: 80\n")
	var s sample
	if err := Load(path, &s); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestDecode_Empty(t *testing.T) {
	s := sample{Name: "kept"}
	if err := Decode(strings.NewReader(""), &s); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Name != "kept" {
		t.Errorf("name = %q", s.Name)
	}
}
