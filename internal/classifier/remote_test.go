package classifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/douane/internal/classifier"
	"github.com/JaimeStill/douane/internal/features"
)

type modelServer struct {
	classIndex int
	proba      []float64
	status     int

	mu   sync.Mutex
	seen map[string]string
}

func (m *modelServer) features() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen
}

func (m *modelServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	decode := func(r *http.Request) {
		var body struct {
			Features map[string]string `json:"features"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		m.mu.Lock()
		m.seen = body.Features
		m.mu.Unlock()
	}

	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		decode(r)
		if m.status != 0 {
			http.Error(w, "model exploded", m.status)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"class_index": m.classIndex})
	})
	mux.HandleFunc("POST /predict_proba", func(w http.ResponseWriter, r *http.Request) {
		decode(r)
		if m.status != 0 {
			http.Error(w, "model exploded", m.status)
			return
		}
		json.NewEncoder(w).Encode(map[string][]float64{"probabilities": m.proba})
	})
	return mux
}

func TestRemotePredict(t *testing.T) {
	m := &modelServer{classIndex: 2, proba: []float64{0.1, 0.1, 0.7, 0.1}}
	srv := httptest.NewServer(m.handler(t))
	defer srv.Close()

	r, err := classifier.NewRemoteWithHTTPClient(srv.URL+"/", time.Second, srv.Client())
	if err != nil {
		t.Fatalf("NewRemote() error = %v", err)
	}
	if r.Name() != "remote:"+srv.URL {
		t.Errorf("Name() = %q", r.Name())
	}

	v := features.Vector{"ABC", "X", "Y", "Z", "P", "T", "B"}

	class, err := r.Predict(context.Background(), v)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if class != 2 {
		t.Errorf("Predict() = %d, want 2", class)
	}
	if seen := m.features(); seen["CODE_DECLARANT"] != "ABC" || seen["COD_BANQUE"] != "B" {
		t.Errorf("server saw features %v", seen)
	}

	proba, err := r.PredictProba(context.Background(), v)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if len(proba) != 4 || proba[2] != 0.7 {
		t.Errorf("PredictProba() = %v", proba)
	}
}

func TestRemoteServerError(t *testing.T) {
	m := &modelServer{status: http.StatusInternalServerError}
	srv := httptest.NewServer(m.handler(t))
	defer srv.Close()

	r, err := classifier.NewRemoteWithHTTPClient(srv.URL, time.Second, srv.Client())
	if err != nil {
		t.Fatalf("NewRemote() error = %v", err)
	}

	if _, err := r.Predict(context.Background(), features.Vector{}); !errors.Is(err, classifier.ErrRemote) {
		t.Errorf("Predict() error = %v, want ErrRemote", err)
	}
	if _, err := r.PredictProba(context.Background(), features.Vector{}); !errors.Is(err, classifier.ErrRemote) {
		t.Errorf("PredictProba() error = %v, want ErrRemote", err)
	}
}

func TestRemoteTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	r, err := classifier.NewRemoteWithHTTPClient(srv.URL, 50*time.Millisecond, srv.Client())
	if err != nil {
		t.Fatalf("NewRemote() error = %v", err)
	}

	if _, err := r.Predict(context.Background(), features.Vector{}); !errors.Is(err, classifier.ErrRemote) {
		t.Errorf("Predict() error = %v, want ErrRemote", err)
	}
}

func TestNewRemoteRequiresBaseURL(t *testing.T) {
	if _, err := classifier.NewRemote("  ", time.Second); !errors.Is(err, classifier.ErrRemote) {
		t.Errorf("NewRemote(blank) error = %v, want ErrRemote", err)
	}
}
