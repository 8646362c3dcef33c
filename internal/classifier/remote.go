package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/douane/internal/features"
)

const (
	predictPath      = "/predict"
	predictProbaPath = "/predict_proba"
)

type remoteRequest struct {
	Features map[string]string `json:"features"`
}

type predictResponse struct {
	ClassIndex int `json:"class_index"`
}

type predictProbaResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Remote calls a model server hosting the trained estimator.
type Remote struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewRemote creates a model server client for baseURL.
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base_url required", ErrRemote)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Remote{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewRemoteWithHTTPClient is intended for tests; it routes calls through httpClient.
func NewRemoteWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client) (*Remote, error) {
	r, err := NewRemote(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		r.httpClient = httpClient
	}
	return r, nil
}

func (r *Remote) Name() string {
	return "remote:" + r.baseURL
}

func (r *Remote) Predict(ctx context.Context, v features.Vector) (int, error) {
	var resp predictResponse
	if err := r.doJSON(ctx, predictPath, remoteRequest{Features: v.Map()}, &resp); err != nil {
		return 0, err
	}
	return resp.ClassIndex, nil
}

func (r *Remote) PredictProba(ctx context.Context, v features.Vector) ([]float64, error) {
	var resp predictProbaResponse
	if err := r.doJSON(ctx, predictProbaPath, remoteRequest{Features: v.Map()}, &resp); err != nil {
		return nil, err
	}
	return resp.Probabilities, nil
}

func (r *Remote) doJSON(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRemote, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: status %d: %s", ErrRemote, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", ErrRemote, path, err)
	}
	return nil
}
