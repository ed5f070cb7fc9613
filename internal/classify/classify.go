// Package classify decides whether a chat message is a counter mutation.
//
// A mutation is a short message naming a counter followed by a trailing
// operator: "label++" increments, "label--" decrements. The label is either
// plain token syntax (word characters plus the <, >, : used by chat-platform
// mention and emoji-code markup) or consists purely of emoji. Mixed
// text+emoji labels are rejected by both policies; a label is one or the
// other, never both.
//
// Classification is a pure function with no I/O and no shared state. It is
// safe to call concurrently.
package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
)

const (
	// maxTextBytes guards against pathological input. Messages at or above
	// this byte length are never mutations.
	maxTextBytes = 60

	// minTextChars is the smallest message that can name a counter: one
	// label character plus the two-character operator.
	minTextChars = 3
)

// asciiLabel is the token-syntax policy for ASCII labels, applied to the
// whitespace-stripped candidate. < > : admit Discord mention and custom
// emoji markup such as <:tada:123456789>.
var asciiLabel = regexp.MustCompile(`^[\w\d<>:]+$`)

// Direction is the sign a mutation applies to its counter.
type Direction int

const (
	Increment Direction = 1
	Decrement Direction = -1
)

// Effect returns the signed unit (+1 or -1) this direction applies.
func (d Direction) Effect() int64 { return int64(d) }

func (d Direction) String() string {
	switch d {
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	default:
		return "unknown"
	}
}

// LabelKind records which validation policy admitted the label. The policy
// is decided exactly once, at classification time; downstream code never
// re-inspects the label's character classes.
type LabelKind int

const (
	// LabelASCII labels passed the token-syntax policy.
	LabelASCII LabelKind = iota

	// LabelEmoji labels consist purely of emoji code points.
	LabelEmoji
)

func (k LabelKind) String() string {
	if k == LabelEmoji {
		return "emoji"
	}
	return "ascii"
}

// Request is a validated counter mutation extracted from a message.
// Label is the authored form (trailing operator removed, interior
// whitespace preserved).
type Request struct {
	Label     string
	Kind      LabelKind
	Direction Direction
}

// Classify inspects raw message text and extracts a mutation request.
// The second return value is false when the text is not a mutation;
// that outcome is normal, not an error.
func Classify(text string) (Request, bool) {
	if len(text) >= maxTextBytes {
		return Request{}, false
	}
	if utf8.RuneCountInString(text) < minTextChars {
		return Request{}, false
	}

	var dir Direction
	switch {
	case strings.HasSuffix(text, "++"):
		dir = Increment
	case strings.HasSuffix(text, "--"):
		dir = Decrement
	default:
		return Request{}, false
	}

	candidate := text[:len(text)-2]
	stripped := stripWhitespace(candidate)

	if isASCII(candidate) {
		if !asciiLabel.MatchString(stripped) {
			return Request{}, false
		}
		return Request{Label: candidate, Kind: LabelASCII, Direction: dir}, true
	}

	if !isEmojiOnly(stripped) {
		return Request{}, false
	}
	return Request{Label: candidate, Kind: LabelEmoji, Direction: dir}, true
}

// stripWhitespace removes all Unicode whitespace from s.
func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// isEmojiOnly reports whether s is non-empty and consists solely of emoji.
// Removing every emoji from a pure-emoji string leaves nothing behind;
// any residue means the string mixed in non-emoji characters.
func isEmojiOnly(s string) bool {
	if s == "" {
		return false
	}
	return gomoji.RemoveEmojis(s) == ""
}
