package advisor

import (
	"context"
	"sync"
)

// fakeGenerator records prompts and replays scripted results.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	tokens  []int
	errs    []error // consumed one per call; nil entries succeed
	reply   string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.tokens = append(f.tokens, maxTokens)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.reply, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
