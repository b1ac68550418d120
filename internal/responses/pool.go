// Package responses holds the canned reply pool sent to suspected scammers.
package responses

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyPool is returned when no usable responses are configured.
var ErrEmptyPool = errors.New("response pool is empty")

// Pool is an immutable ordered list of reply texts.
type Pool struct {
	messages []string
}

// New copies messages into a pool. Blank entries are rejected since the
// messaging API refuses empty texts.
func New(messages []string) (*Pool, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPool
	}
	copied := make([]string, len(messages))
	for i, m := range messages {
		if strings.TrimSpace(m) == "" {
			return nil, fmt.Errorf("response %d is blank", i)
		}
		copied[i] = m
	}
	return &Pool{messages: copied}, nil
}

// Load reads the pool from path when set, otherwise uses inline. The file may
// be a JSON array of strings or a YAML list.
func Load(path string, inline []string) (*Pool, error) {
	if path == "" {
		return New(inline)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read responses file: %w", err)
	}

	var messages []string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse responses file %s: %w", path, err)
	}

	pool, err := New(messages)
	if err != nil {
		return nil, fmt.Errorf("responses file %s: %w", path, err)
	}
	return pool, nil
}

// Len returns the number of responses.
func (p *Pool) Len() int {
	return len(p.messages)
}

// Messages returns a copy of the responses in their configured order.
func (p *Pool) Messages() []string {
	out := make([]string, len(p.messages))
	copy(out, p.messages)
	return out
}

// Shuffled returns a uniformly permuted copy of the pool. The pool itself is
// never reordered. A nil r uses the global source.
func (p *Pool) Shuffled(r *rand.Rand) []string {
	out := p.Messages()
	Shuffle(out, r)
	return out
}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](items []T, r *rand.Rand) {
	intN := rand.IntN
	if r != nil {
		intN = r.IntN
	}
	for i := len(items) - 1; i > 0; i-- {
		j := intN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
