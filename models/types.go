package models

import (
	"fmt"
	"strings"
)

// Classification is the priority tier assigned to an item.
type Classification string

const (
	// ClassSignal marks high-impact work that directly advances a stated priority.
	ClassSignal Classification = "SIGNAL"
	// ClassNecessary marks required but not high-impact work; batchable.
	ClassNecessary Classification = "NECESSARY"
	// ClassNoise marks low-value work; a candidate for deferral or delegation.
	ClassNoise Classification = "NOISE"
)

// Classifications lists all valid tiers in display order.
var Classifications = []Classification{ClassSignal, ClassNecessary, ClassNoise}

// Valid reports whether c is one of the three known tiers.
func (c Classification) Valid() bool {
	switch c {
	case ClassSignal, ClassNecessary, ClassNoise:
		return true
	}
	return false
}

// ParseClassification converts a raw string (any case) to a Classification.
func ParseClassification(s string) (Classification, error) {
	s = strings.TrimSpace(s)
	for _, c := range Classifications {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown classification: %q", s)
}
