package qaclient

import (
	"log"
	"os"
	"time"
)

const (
	// EnvQAMode is the environment variable name for mode selection.
	EnvQAMode = "QA_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewQueryClient creates a backend client based on the QA_MODE environment variable.
// If QA_MODE=MOCK, returns a MockClient; otherwise returns a real Client.
func NewQueryClient(baseURL string, resultCount int, mode string, timeout time.Duration) QueryClient {
	if os.Getenv(EnvQAMode) == ModeMock {
		log.Println("QA_MODE=MOCK detected, using mock Q&A client")
		return NewMockClient(mode)
	}

	return NewClient(baseURL, resultCount, mode, timeout)
}
