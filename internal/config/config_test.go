package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SearchSeconds != defaultSearchSeconds || cfg.ReadTimeoutSeconds != defaultReadTimeoutSeconds {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, "search_seconds = 10\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SearchSeconds != 10 {
		t.Fatalf("expected search_seconds 10, got %d", cfg.SearchSeconds)
	}
	if cfg.ReadTimeoutSeconds != defaultReadTimeoutSeconds {
		t.Fatalf("expected default read timeout, got %d", cfg.ReadTimeoutSeconds)
	}
}

func TestLoad_RejectsNonPositiveWindow(t *testing.T) {
	path := writeConfig(t, "search_seconds = 0\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-positive search_seconds")
	}
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.Aliases["bedroom"] = "192.168.1.45"

	addr, err := cfg.Resolve("bedroom")
	if err != nil {
		t.Fatalf("resolve alias: %v", err)
	}
	if addr != netip.MustParseAddr("192.168.1.45") {
		t.Fatalf("unexpected addr %v", addr)
	}

	addr, err = cfg.Resolve("10.0.0.7")
	if err != nil {
		t.Fatalf("resolve literal: %v", err)
	}
	if addr != netip.MustParseAddr("10.0.0.7") {
		t.Fatalf("unexpected addr %v", addr)
	}

	if _, err := cfg.Resolve("garage"); err == nil {
		t.Fatal("expected error for unknown alias")
	}
	if _, err := cfg.Resolve("fe80::1"); err == nil {
		t.Fatal("expected error for IPv6 address")
	}
}
