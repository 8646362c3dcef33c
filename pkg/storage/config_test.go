package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/douane/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderFile {
		t.Errorf("provider: got %s, want %s", cfg.Provider, storage.ProviderFile)
	}
	if cfg.Root != "models" {
		t.Errorf("root: got %s, want models", cfg.Root)
	}
	if cfg.ContainerName != "models" {
		t.Errorf("container_name: got %s, want models", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "artifacts")
	t.Setenv("TEST_CONN", "override-connection")

	env := &storage.Env{
		Provider:         "TEST_PROVIDER",
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "artifacts" {
		t.Errorf("container_name: got %s, want artifacts", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure missing connection_string",
			cfg:     storage.Config{Provider: storage.ProviderAzure, ContainerName: "models"},
			wantErr: "connection_string required",
		},
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "s3"},
			wantErr: "unsupported provider",
		},
		{
			name: "file provider needs nothing else",
			cfg:  storage.Config{Provider: storage.ProviderFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider:         storage.ProviderFile,
		Root:             "models",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{Provider: storage.ProviderAzure, ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", base.Provider)
	}
	if base.Root != "models" {
		t.Errorf("root should remain models, got %s", base.Root)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}
