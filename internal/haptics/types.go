// Package haptics turns feedback requests into pulses on the glove
// actuators. It owns the 8-byte command encoding and the per-finger cooldown
// that stops an actuator being re-triggered while a pulse is still playing.
package haptics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownHand     = errors.New("unknown hand")
	ErrUnknownLocation = errors.New("unknown feedback location")
)

// FeedbackLocation selects one actuator on a hand. Each location is a single
// bit so firmware can treat it as a mask, but requests name exactly one.
type FeedbackLocation uint8

const (
	Thumb  FeedbackLocation = 1 << iota // 1
	Index                               // 2
	Middle                              // 4
	Ring                                // 8
	Pinky                               // 16
)

var locationNames = map[FeedbackLocation]string{
	Thumb:  "thumb",
	Index:  "index",
	Middle: "middle",
	Ring:   "ring",
	Pinky:  "pinky",
}

// Locations returns the five finger locations in thumb-to-pinky order.
func Locations() []FeedbackLocation {
	return []FeedbackLocation{Thumb, Index, Middle, Ring, Pinky}
}

// Valid reports whether l is one of the five defined locations.
func (l FeedbackLocation) Valid() bool {
	_, ok := locationNames[l]
	return ok
}

func (l FeedbackLocation) String() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return fmt.Sprintf("location(%d)", uint8(l))
}

// ParseLocation accepts a finger name (case-insensitive).
func ParseLocation(s string) (FeedbackLocation, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for loc, name := range locationNames {
		if name == needle {
			return loc, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, s)
}

// Hand selects which glove a request is for. Both fans out to Left and Right
// and is never stored.
type Hand uint8

const (
	Left Hand = iota
	Right
	Both
)

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("hand(%d)", uint8(h))
	}
}

// Hands expands a selector into the physical hands it addresses. Unknown
// values address no hand.
func (h Hand) Hands() []Hand {
	switch h {
	case Left, Right:
		return []Hand{h}
	case Both:
		return []Hand{Left, Right}
	default:
		return nil
	}
}

// ParseHand accepts "left", "right" or "both" (case-insensitive).
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "both", "b":
		return Both, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHand, s)
	}
}

// FeedbackRequest asks for one pulse. Strength is nominally in [0,1] and is
// clamped when encoded; Duration is in seconds.
type FeedbackRequest struct {
	Hand     Hand
	Location FeedbackLocation
	Strength float32
	Duration float32
}
