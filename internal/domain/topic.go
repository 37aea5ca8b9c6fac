package domain

import (
	"fmt"
	"strings"
)

// TopicSeparator is the only delimiter recognized between the two labels.
const TopicSeparator = " vs "

// MalformedTopicPolicy decides what happens when a topic lacks the separator.
// Values include MalformedTopicDuplicate and MalformedTopicReject.
type MalformedTopicPolicy string

const (
	// MalformedTopicDuplicate uses the whole input as both labels.
	MalformedTopicDuplicate MalformedTopicPolicy = "duplicate"
	// MalformedTopicReject refuses to render.
	MalformedTopicReject MalformedTopicPolicy = "reject"
)

// Topic is the two-label subject of comparison.
type Topic struct {
	Raw      string
	Left     string
	Right    string
	Degraded bool // true when the labels were duplicated from a malformed input
}

// ParseTopic splits raw on TopicSeparator into exactly two non-empty labels.
// Parameters:
//   - raw: user input in the form "<A> vs <B>".
//   - policy: behavior for inputs that do not split cleanly.
//
// Returns:
//   - Topic: parsed labels.
//   - error: ErrMalformedTopic when policy is MalformedTopicReject and the input is malformed.
func ParseTopic(raw string, policy MalformedTopicPolicy) (Topic, error) {
	trimmed := strings.TrimSpace(raw)
	parts := strings.Split(trimmed, TopicSeparator)
	if len(parts) == 2 {
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		if left != "" && right != "" {
			return Topic{Raw: trimmed, Left: left, Right: right}, nil
		}
	}

	if policy == MalformedTopicReject {
		return Topic{}, fmt.Errorf("%w: %q", ErrMalformedTopic, raw)
	}
	return Topic{Raw: trimmed, Left: trimmed, Right: trimmed, Degraded: true}, nil
}

// ParseMalformedTopicPolicy validates a policy name. Empty means duplicate.
func ParseMalformedTopicPolicy(s string) (MalformedTopicPolicy, error) {
	switch MalformedTopicPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MalformedTopicDuplicate:
		return MalformedTopicDuplicate, nil
	case MalformedTopicReject:
		return MalformedTopicReject, nil
	default:
		return "", fmt.Errorf("unknown malformed topic policy %q", s)
	}
}

// Side selects which label is framed as the virgin.
// Values include SideLeft, SideRight, and SideBoth.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideBoth  Side = "both"
)

// ParseSide accepts the side names and the interactive menu digits 1, 2, 3.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "1":
		return SideLeft, nil
	case "right", "2":
		return SideRight, nil
	case "both", "3":
		return SideBoth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Expand returns the concrete sides to render. SideBoth renders right then left.
func (s Side) Expand() []Side {
	if s == SideBoth {
		return []Side{SideRight, SideLeft}
	}
	return []Side{s}
}

// Role is a caption framing: the inferior virgin or the superior chad.
type Role string

const (
	RoleVirgin Role = "virgin"
	RoleChad   Role = "chad"
)

// Assignment holds the resolved label for each role in one render.
type Assignment struct {
	Virgin string
	Chad   string
	Side   Side
}

// Assign resolves which label is the virgin for a concrete side.
// SideLeft frames the left label as the virgin; any other side frames the right one.
func (t Topic) Assign(side Side) Assignment {
	if side == SideLeft {
		return Assignment{Virgin: t.Left, Chad: t.Right, Side: side}
	}
	return Assignment{Virgin: t.Right, Chad: t.Left, Side: side}
}

// Label returns the label framed under role.
func (a Assignment) Label(role Role) string {
	if role == RoleChad {
		return a.Chad
	}
	return a.Virgin
}
