package config

import "testing"

func TestResolveDefaultsLocal(t *testing.T) {
	cfg := &Config{BuildTarget: "local", DBDriver: "auto", BlobDriver: "cloudinary"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("ResolveDefaults: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("db driver = %q, want sqlite", cfg.DBDriver)
	}
}

func TestResolveDefaultsCloud(t *testing.T) {
	cfg := &Config{BuildTarget: "cloud", DBDriver: "", BlobDriver: "b2"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("ResolveDefaults: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("db driver = %q, want postgres", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknowns(t *testing.T) {
	if err := (&Config{BuildTarget: "mainframe"}).ResolveDefaults(); err == nil {
		t.Error("unknown build target should fail")
	}
	if err := (&Config{BuildTarget: "local", DBDriver: "oracle", BlobDriver: "cloudinary"}).ResolveDefaults(); err == nil {
		t.Error("unknown db driver should fail")
	}
	if err := (&Config{BuildTarget: "local", DBDriver: "sqlite", BlobDriver: "ftp"}).ResolveDefaults(); err == nil {
		t.Error("unknown blob driver should fail")
	}
}
