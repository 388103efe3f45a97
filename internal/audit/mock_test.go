package audit

import (
	"context"
	"sync"

	"github.com/sells-group/leadaudit/internal/analysis"
)

// scriptedReasoner replays canned responses in order.
type scriptedReasoner struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []analysis.Prompt
}

func (s *scriptedReasoner) Name() string { return "scripted" }

func (s *scriptedReasoner) Generate(_ context.Context, p analysis.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	out := s.replies[0]
	s.replies = s.replies[1:]
	return out, nil
}

func newScripted(replies ...string) (*Service, *scriptedReasoner) {
	r := &scriptedReasoner{replies: replies}
	return NewService(analysis.NewClient(r)), r
}
