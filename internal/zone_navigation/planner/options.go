package planner

import (
	"fmt"
	"strings"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

// Policy decides which tier a node may fall back to when it has no safe neighbor.
type Policy int

const (
	// PolicyDangerFallback admits safe, else cautious, else dangerous neighbors.
	PolicyDangerFallback Policy = iota
	// PolicyStrict admits safe, else cautious neighbors and never enters a dangerous zone.
	PolicyStrict
)

func (p Policy) String() string {
	switch p {
	case PolicyDangerFallback:
		return "danger-fallback"
	case PolicyStrict:
		return "strict"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "danger-fallback", "fallback":
		return PolicyDangerFallback, nil
	case "strict":
		return PolicyStrict, nil
	}
	return 0, fmt.Errorf("unknown route policy %q", s)
}

// Option configures a single planning call.
type Option func(*Options)

type Options struct {
	Policy Policy

	// OnEnqueue is called for every admitted neighbor with the tier it was admitted from.
	OnEnqueue func(id domain.ZoneID, tier domain.Classification, depth int)

	// OnVisit is called when a zone is popped from the queue.
	OnVisit func(id domain.ZoneID, depth int)
}

func DefaultOptions() Options {
	return Options{
		Policy:    PolicyDangerFallback,
		OnEnqueue: func(domain.ZoneID, domain.Classification, int) {},
		OnVisit:   func(domain.ZoneID, int) {},
	}
}

func WithPolicy(p Policy) Option {
	return func(o *Options) { o.Policy = p }
}

func WithOnEnqueue(fn func(id domain.ZoneID, tier domain.Classification, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

func WithOnVisit(fn func(id domain.ZoneID, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}
