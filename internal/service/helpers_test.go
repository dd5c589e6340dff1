package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/aliskhannn/quizdeck/internal/repository"
)

const csvHeader = "Topic,Question_Text,Option_A,Option_B,Option_C,Option_D,Correct_Answer\n"

// stubSource serves data files from memory and records fetch order.
type stubSource struct {
	mu      sync.Mutex
	files   map[string]string
	fetched []string
}

func newStubSource(files map[string]string) *stubSource {
	return &stubSource{files: files}
}

func (s *stubSource) Fetch(_ context.Context, locator string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, locator)

	raw, ok := s.files[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrSourceUnavailable, locator)
	}
	return []byte(raw), nil
}

func (s *stubSource) set(locator, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[locator] = raw
}

func rows(n int) string {
	out := csvHeader
	for i := range n {
		out += fmt.Sprintf("Topic %d,Question %d,a,b,c,d,A\n", i, i)
	}
	return out
}
