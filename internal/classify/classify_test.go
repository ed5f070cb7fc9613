package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Increment(t *testing.T) {
	req, ok := Classify("counter++")
	require.True(t, ok)
	assert.Equal(t, "counter", req.Label)
	assert.Equal(t, Increment, req.Direction)
	assert.Equal(t, LabelASCII, req.Kind)
}

func TestClassify_Decrement(t *testing.T) {
	req, ok := Classify("counter--")
	require.True(t, ok)
	assert.Equal(t, "counter", req.Label)
	assert.Equal(t, Decrement, req.Direction)
}

func TestClassify_EmojiLabel(t *testing.T) {
	req, ok := Classify("🎉🎉--")
	require.True(t, ok)
	assert.Equal(t, "🎉🎉", req.Label)
	assert.Equal(t, Decrement, req.Direction)
	assert.Equal(t, LabelEmoji, req.Kind)
}

func TestClassify_EmojiLabelWithWhitespace(t *testing.T) {
	// Whitespace is stripped before the emoji policy runs, but the label
	// keeps its authored form.
	req, ok := Classify("🎉 🎉++")
	require.True(t, ok)
	assert.Equal(t, "🎉 🎉", req.Label)
	assert.Equal(t, LabelEmoji, req.Kind)
}

func TestClassify_MarkupSyntax(t *testing.T) {
	// Custom emoji markup and angle-bracketed ids pass the token policy.
	for _, text := range []string{
		"<:tada:1234567>++",
		"<138634728893>++",
		"snake_case_name--",
		"counter2++",
	} {
		_, ok := Classify(text)
		assert.True(t, ok, "expected %q to classify", text)
	}
}

func TestClassify_TooShort(t *testing.T) {
	for _, text := range []string{"", "+", "++", "--", "a+"} {
		_, ok := Classify(text)
		assert.False(t, ok, "expected %q to be rejected", text)
	}
}

func TestClassify_TooLong(t *testing.T) {
	// 60 bytes and above are rejected even when otherwise well-formed.
	text := strings.Repeat("a", 58) + "++"
	require.Len(t, text, 60)
	_, ok := Classify(text)
	assert.False(t, ok)

	// One byte under the bound still classifies.
	text = strings.Repeat("a", 57) + "++"
	_, ok = Classify(text)
	assert.True(t, ok)
}

func TestClassify_NoOperator(t *testing.T) {
	for _, text := range []string{"counter", "counter+-", "counter+", "++counter"} {
		_, ok := Classify(text)
		assert.False(t, ok, "expected %q to be rejected", text)
	}
}

func TestClassify_AsciiPolicyRejects(t *testing.T) {
	for _, text := range []string{
		"abc!!++",      // punctuation outside the allowed set
		"a b c!++",     // stripped form still carries !
		"   ++",        // whitespace-only candidate strips to empty
		"some text?--", // question mark
	} {
		_, ok := Classify(text)
		assert.False(t, ok, "expected %q to be rejected", text)
	}
}

func TestClassify_SpacedAsciiLabel(t *testing.T) {
	// Interior whitespace is removed for matching only; the authored
	// label keeps it.
	req, ok := Classify("space counter++")
	require.True(t, ok)
	assert.Equal(t, "space counter", req.Label)
}

func TestClassify_MixedTextAndEmojiRejected(t *testing.T) {
	// Mixed labels fail both policies: non-ASCII routes to the emoji
	// policy, which requires every character to be emoji.
	for _, text := range []string{"abc🎉++", "🎉abc--", "héllo++"} {
		_, ok := Classify(text)
		assert.False(t, ok, "expected %q to be rejected", text)
	}
}

func TestDirection_Effect(t *testing.T) {
	assert.Equal(t, int64(1), Increment.Effect())
	assert.Equal(t, int64(-1), Decrement.Effect())
}
