package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/infrastructure/circuitbreaker"
	"github.com/fieldserve/repairline/internal/ports"
)

// ObjectStore uploads rendered audio clips to the row store's bucket endpoint
// and hands back the public URL callers embed in replies.
type ObjectStore struct {
	baseURL string
	apiKey  string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

func NewObjectStore(baseURL, apiKey string, log *zap.Logger) ports.ObjectStore {
	return &ObjectStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    circuitbreaker.NewHTTPClientWithSettings("object-store", 30*time.Second, log),
		log:     log,
	}
}

func (s *ObjectStore) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	// Re-rendering a template overwrites the previous clip at the same path.
	req.Header.Set("x-upsert", "true")

	resp, err := s.http.Do(req)
	if err != nil && resp == nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, path), nil
}
