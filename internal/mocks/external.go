package mocks

import "context"

// MockObjectStore is a mock implementation of ObjectStore interface
type MockObjectStore struct {
	UploadFunc func(ctx context.Context, bucket, path string, contentType string, data []byte) (string, error)
	Uploaded   []string
}

func (m *MockObjectStore) Upload(ctx context.Context, bucket, path string, contentType string, data []byte) (string, error) {
	m.Uploaded = append(m.Uploaded, path)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, bucket, path, contentType, data)
	}
	return "https://storage.example.com/" + bucket + "/" + path, nil
}

// MockSpeechSynthesizer is a mock implementation of SpeechSynthesizer interface
type MockSpeechSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text string) ([]byte, string, error)
}

func (m *MockSpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return []byte("audio-bytes"), "audio/mpeg", nil
}
