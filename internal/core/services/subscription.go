package services

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
	"github.com/custodia-labs/eregs/internal/core/ports/driving"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Ensure SubscriptionService implements the interface.
var _ driving.SubscriptionService = (*SubscriptionService)(nil)

// subscriber is one (pattern, client) registration with its delivery sink.
type subscriber struct {
	sub  domain.Subscription
	sink driven.NotificationSink
}

// SubscriptionService owns the pattern -> subscriber map and fans out
// resource updates. All registry mutation and the fan-out read happen
// under one mutex, so a subscribe or unsubscribe either fully precedes
// or fully follows a notification. Deliveries for one notification run
// concurrently with each other but never with registry mutation.
type SubscriptionService struct {
	mu sync.Mutex

	// subs maps pattern -> clientID -> subscriber. A pattern with no
	// subscribers is removed immediately; no empty buckets linger.
	subs map[string]map[string]*subscriber

	// matchers caches the compiled rule per registered pattern.
	matchers map[string]*regexp.Regexp
}

// NewSubscriptionService creates an empty subscription registry.
func NewSubscriptionService() *SubscriptionService {
	return &SubscriptionService{
		subs:     make(map[string]map[string]*subscriber),
		matchers: make(map[string]*regexp.Regexp),
	}
}

// Subscribe upserts the (pattern, client) subscription. Re-subscribing
// replaces the prior entry and resets its timestamps. Patterns that do
// not compile are rejected with domain.ErrInvalidPattern.
func (s *SubscriptionService) Subscribe(_ context.Context, pattern, clientID string, sink driven.NotificationSink) error {
	re, err := domain.CompilePattern(pattern)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.subs[pattern]
	if !ok {
		bucket = make(map[string]*subscriber)
		s.subs[pattern] = bucket
		s.matchers[pattern] = re
	}

	now := time.Now()
	bucket[clientID] = &subscriber{
		sub: domain.Subscription{
			Pattern:      pattern,
			ClientID:     clientID,
			CreatedAt:    now,
			LastNotified: now,
		},
		sink: sink,
	}

	logger.Debug("client %s subscribed to %s", clientID, pattern)
	return nil
}

// Unsubscribe removes the matching entry if present; absent entries are a
// no-op. The pattern bucket is pruned when it empties.
func (s *SubscriptionService) Unsubscribe(_ context.Context, pattern, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.subs[pattern]
	if !ok {
		return
	}
	delete(bucket, clientID)
	if len(bucket) == 0 {
		delete(s.subs, pattern)
		delete(s.matchers, pattern)
	}
	logger.Debug("client %s unsubscribed from %s", clientID, pattern)
}

// UnsubscribeAll removes every subscription owned by the client.
func (s *SubscriptionService) UnsubscribeAll(_ context.Context, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pattern, bucket := range s.subs {
		delete(bucket, clientID)
		if len(bucket) == 0 {
			delete(s.subs, pattern)
			delete(s.matchers, pattern)
		}
	}
	logger.Debug("client %s unsubscribed from all patterns", clientID)
}

// Patterns returns the patterns the client currently holds.
func (s *SubscriptionService) Patterns(clientID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var patterns []string
	for pattern, bucket := range s.subs {
		if _, ok := bucket[clientID]; ok {
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}

// Subscriptions returns the client's subscriptions with timestamps.
func (s *SubscriptionService) Subscriptions(clientID string) []domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Subscription
	for _, bucket := range s.subs {
		if sub, ok := bucket[clientID]; ok {
			out = append(out, sub.sub)
		}
	}
	return out
}

// NotifyUpdate delivers the update to every subscriber of every pattern
// matching resourceID. Deliveries run concurrently; a failing subscriber
// is logged and does not block the others. LastNotified advances only for
// subscribers whose delivery succeeded.
func (s *SubscriptionService) NotifyUpdate(ctx context.Context, resourceID string, content []byte, mimeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var wg sync.WaitGroup

	for pattern, bucket := range s.subs {
		if !s.matchers[pattern].MatchString(resourceID) {
			continue
		}
		for _, sub := range bucket {
			wg.Add(1)
			go func(sub *subscriber) {
				defer wg.Done()
				if err := sub.sink.Notify(ctx, resourceID, content, mimeType); err != nil {
					logger.Warn("notifying client %s about %s: %v", sub.sub.ClientID, resourceID, err)
					return
				}
				sub.sub.LastNotified = now
				logger.Debug("notified client %s about %s", sub.sub.ClientID, resourceID)
			}(sub)
		}
	}

	// Deliveries must finish before any registry mutation can proceed.
	wg.Wait()
}
