package autoreply

import (
	"context"
	"log/slog"
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Rules is the immutable trigger configuration.
type Rules struct {
	keywords []string
	excluded map[int64]struct{}
}

// NewRules builds rules from lowercase keywords and excluded sender ids.
func NewRules(keywords []string, excluded []int64) Rules {
	r := Rules{
		keywords: make([]string, 0, len(keywords)),
		excluded: make(map[int64]struct{}, len(excluded)),
	}
	for _, k := range keywords {
		if k = strings.ToLower(k); k != "" {
			r.keywords = append(r.keywords, k)
		}
	}
	for _, id := range excluded {
		r.excluded[id] = struct{}{}
	}
	return r
}

// Keywords returns a copy of the trigger keywords.
func (r Rules) Keywords() []string {
	return append([]string(nil), r.keywords...)
}

// ExcludedIDs returns the excluded sender ids in no particular order.
func (r Rules) ExcludedIDs() []int64 {
	return pie.Keys(r.excluded)
}

// IsExcluded reports whether senderID never gets an autoreply.
func (r Rules) IsExcluded(senderID int64) bool {
	_, ok := r.excluded[senderID]
	return ok
}

// MatchesKeyword reports whether the lowercased text contains any keyword.
func (r Rules) MatchesKeyword(text string) bool {
	lower := strings.ToLower(text)
	return pie.Any(r.keywords, func(k string) bool {
		return strings.Contains(lower, k)
	})
}

// Engine evaluates the autoreply decision.
type Engine struct {
	rules      Rules
	classifier Classifier
	log        *slog.Logger
}

// NewEngine returns an engine using rules and classifier.
func NewEngine(rules Rules, classifier Classifier, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		rules:      rules,
		classifier: classifier,
		log:        log.With("component", "decision_engine"),
	}
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// ShouldAutoreply decides whether senderID gets the reply sequence for text.
// Checks run in order and each one is final:
//  1. excluded senders never trigger;
//  2. with keywords configured, the result is whether text contains one
//     (inFlight and the classifier are not consulted);
//  3. senders already in flight do not trigger;
//  4. otherwise the classifier verdict is returned as is.
//
// Classifier errors are returned to the caller.
func (e *Engine) ShouldAutoreply(ctx context.Context, senderID int64, text string, inFlight InFlight) (bool, error) {
	if e.rules.IsExcluded(senderID) {
		e.log.DebugContext(ctx, "Sender is excluded", "sender_id", senderID)
		return false, nil
	}

	if len(e.rules.keywords) > 0 {
		matched := e.rules.MatchesKeyword(text)
		e.log.DebugContext(ctx, "Keyword check", "sender_id", senderID, "matched", matched)
		return matched, nil
	}

	if inFlight != nil && inFlight.Contains(senderID) {
		e.log.InfoContext(ctx, "Already replying to user, skipping", "sender_id", senderID)
		return false, nil
	}

	e.log.InfoContext(ctx, "No trigger keywords set, proceeding to classifier", "sender_id", senderID)
	isScam, err := e.classifier.Classify(ctx, text)
	if err != nil {
		return false, err
	}
	if isScam {
		e.log.InfoContext(ctx, "Message identified as scam", "sender_id", senderID)
	} else {
		e.log.InfoContext(ctx, "Message not identified as scam", "sender_id", senderID)
	}
	return isScam, nil
}
