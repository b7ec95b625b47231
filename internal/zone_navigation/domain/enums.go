package domain

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Classification string

const (
	ClassSafe      Classification = "safe"
	ClassCautious  Classification = "cautious"
	ClassDangerous Classification = "dangerous"
)

type ZoneKind string

const (
	KindStore    ZoneKind = "store"
	KindCorridor ZoneKind = "corridor"
	KindExterior ZoneKind = "exterior"
)

// rank orders classifications from most to least preferred.
func (c Classification) rank() int {
	switch c {
	case ClassSafe:
		return 0
	case ClassCautious:
		return 1
	case ClassDangerous:
		return 2
	}
	return -1
}

// Valid reports whether c is one of the three tiers.
func (c Classification) Valid() bool { return c.rank() >= 0 }

// Worse returns whichever of c and o is less preferred.
func (c Classification) Worse(o Classification) Classification {
	if o.rank() > c.rank() {
		return o
	}
	return c
}

func (s Status) Valid() bool { return s == StatusOpen || s == StatusClosed }

// ParseStatus accepts open/closed plus the door lock words used by the dashboard.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "unlocked":
		return StatusOpen, nil
	case "closed", "locked":
		return StatusClosed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ParseClassification accepts safe/cautious/dangerous and the legacy ok/caution/danger
// markings written by the voice agent.
func ParseClassification(s string) (Classification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safe", "ok":
		return ClassSafe, nil
	case "cautious", "caution":
		return ClassCautious, nil
	case "dangerous", "danger":
		return ClassDangerous, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidClassification, s)
}

func ParseZoneKind(s string) (ZoneKind, error) {
	switch ZoneKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindStore:
		return KindStore, nil
	case KindCorridor:
		return KindCorridor, nil
	case KindExterior, "exit", "outside":
		return KindExterior, nil
	}
	return "", fmt.Errorf("unknown zone kind %q", s)
}
