package classifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/douane/internal/classifier"
	"github.com/JaimeStill/douane/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fileStore(t *testing.T) (storage.System, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.New(&storage.Config{Provider: storage.ProviderFile, Root: root}, discard())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	return store, root
}

func TestLoadArtifact(t *testing.T) {
	store, root := fileStore(t)

	data, err := json.Marshal(testArtifact())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "model.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &classifier.Config{Kind: classifier.KindArtifact, Artifact: "model.json"}
	clf, err := classifier.Load(context.Background(), cfg, store, discard())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if clf.Name() != "test@1" {
		t.Errorf("Name() = %q, want test@1", clf.Name())
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	store, _ := fileStore(t)

	cfg := &classifier.Config{Kind: classifier.KindArtifact, Artifact: "absent.json"}
	clf, err := classifier.Load(context.Background(), cfg, store, discard())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
	if clf != nil {
		t.Errorf("Load() returned %v alongside an error", clf)
	}
}

func TestLoadCorruptArtifact(t *testing.T) {
	store, root := fileStore(t)
	if err := os.WriteFile(filepath.Join(root, "model.json"), []byte(`{"classes":["EXC"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &classifier.Config{Kind: classifier.KindArtifact, Artifact: "model.json"}
	if _, err := classifier.Load(context.Background(), cfg, store, discard()); !errors.Is(err, classifier.ErrInvalidArtifact) {
		t.Errorf("Load() error = %v, want ErrInvalidArtifact", err)
	}
}

func TestLoadRemote(t *testing.T) {
	cfg := &classifier.Config{Kind: classifier.KindRemote, BaseURL: "http://model:9000", Timeout: "2s"}
	clf, err := classifier.Load(context.Background(), cfg, nil, discard())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if clf.Name() != "remote:http://model:9000" {
		t.Errorf("Name() = %q", clf.Name())
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     classifier.Config
		wantErr bool
	}{
		{"defaults", classifier.Config{}, false},
		{"remote without url", classifier.Config{Kind: classifier.KindRemote}, true},
		{"unknown kind", classifier.Config{Kind: "onnx"}, true},
		{"bad timeout", classifier.Config{Timeout: "fast"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := classifier.Config{}
	cfg.Finalize(nil)
	if cfg.Kind != classifier.KindArtifact || cfg.Artifact != "fraud_detection_model.json" {
		t.Errorf("defaults = %+v", cfg)
	}
}
