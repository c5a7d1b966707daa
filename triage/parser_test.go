package triage

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pb2jamz/Signal-Sorter/models"
)

func newTestParser() *Parser {
	return NewParser(DefaultParserConfig(), zerolog.Nop())
}

func TestExtractJSONTier(t *testing.T) {
	p := newTestParser()

	t.Run("object with items array", func(t *testing.T) {
		resp := "Got it, let's sort this out.\n\n" +
			"```json\n" +
			`{"items": [{"name": "Ship release", "classification": "SIGNAL", "what": "Deploy v2", "why": "Blocks launch", "next": "Merge PR"}]}` +
			"\n```\n\nTop signal: Ship release"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Ship release", got[0].Name)
		assert.Equal(t, models.ClassSignal, got[0].Classification)
		assert.Equal(t, "Deploy v2", got[0].What)
		assert.Equal(t, "Blocks launch", got[0].Why)
		assert.Equal(t, "Merge PR", got[0].NextAction)
	})

	t.Run("bare top-level array", func(t *testing.T) {
		resp := "```json\n" +
			`[{"name": "File expenses", "classification": "NECESSARY"}, {"name": "Organize desk", "classification": "NOISE"}]` +
			"\n```"
		got := p.Extract(resp)
		require.Len(t, got, 2)
		assert.Equal(t, models.ClassNecessary, got[0].Classification)
		assert.Equal(t, models.ClassNoise, got[1].Classification)
	})

	t.Run("untagged fence accepted", func(t *testing.T) {
		resp := "```\n" + `{"items": [{"name": "Write report", "classification": "SIGNAL"}]}` + "\n```"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Write report", got[0].Name)
	})

	t.Run("unknown classification rejects the element", func(t *testing.T) {
		resp := "```json\n" +
			`{"items": [{"name": "Bad one", "classification": "URGENT"}, {"name": "Good one", "classification": "SIGNAL"}]}` +
			"\n```"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Good one", got[0].Name)
	})

	t.Run("field keys are matched case-sensitively", func(t *testing.T) {
		resp := "```json\n" +
			`{"items": [{"Name": "Ship release", "Classification": "SIGNAL"}]}` +
			"\n```"
		assert.Empty(t, p.Extract(resp))
	})

	t.Run("classification label stripped from name", func(t *testing.T) {
		resp := "```json\n" +
			`{"items": [{"name": "SIGNAL: Review budget", "classification": "SIGNAL"}]}` +
			"\n```"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Review budget", got[0].Name)
	})
}

func TestExtractMarkerFallback(t *testing.T) {
	p := newTestParser()

	t.Run("malformed json falls through to marker tier", func(t *testing.T) {
		resp := "Here's my read:\n\n" +
			"```json\n{\"items\": [{\"name\": \"Broken\",]\n```\n\n" +
			"🟢 SIGNAL: Ship release | WHAT: Deploy v2 | WHY: Blocks launch | NEXT: Merge PR\n"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Ship release", got[0].Name)
		assert.Equal(t, models.ClassSignal, got[0].Classification)
		assert.Equal(t, "Deploy v2", got[0].What)
		assert.Equal(t, "Blocks launch", got[0].Why)
		assert.Equal(t, "Merge PR", got[0].NextAction)
	})

	t.Run("json tier filtered to nothing falls through to marker tier", func(t *testing.T) {
		// The JSON block parses but its only name is below the minimum
		// length, so the filtered tier yields zero and the marker line wins.
		resp := "```json\n" +
			`{"items": [{"name": "ok", "classification": "SIGNAL"}]}` +
			"\n```\n\n🟢 SIGNAL: Fix the leak\n"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Fix the leak", got[0].Name)
		assert.Equal(t, models.ClassSignal, got[0].Classification)
	})

	t.Run("full pipe-delimited pattern for noise glyph", func(t *testing.T) {
		got := p.Extract("🔴 NOISE: Organize desk | WHAT: Tidy up | NEXT: Sunday")
		require.Len(t, got, 1)
		assert.Equal(t, "Organize desk", got[0].Name)
		assert.Equal(t, models.ClassNoise, got[0].Classification)
		assert.Equal(t, "Tidy up", got[0].What)
		assert.Empty(t, got[0].Why)
		assert.Equal(t, "Sunday", got[0].NextAction)
	})

	t.Run("simple tag line without glyph", func(t *testing.T) {
		got := p.Extract("NECESSARY: File expense report")
		require.Len(t, got, 1)
		assert.Equal(t, "File expense report", got[0].Name)
		assert.Equal(t, models.ClassNecessary, got[0].Classification)
	})

	t.Run("one candidate per line, line order preserved", func(t *testing.T) {
		resp := "🔴 NOISE: Organize desk\n🟢 SIGNAL: Ship release\n"
		got := p.Extract(resp)
		require.Len(t, got, 2)
		assert.Equal(t, models.ClassNoise, got[0].Classification)
		assert.Equal(t, models.ClassSignal, got[1].Classification)
	})

	t.Run("guard phrase rejects commentary lines", func(t *testing.T) {
		resp := "SIGNAL: Your top pick should be the release\n🟢 SIGNAL: Fix the leak\n"
		got := p.Extract(resp)
		require.Len(t, got, 1)
		assert.Equal(t, "Fix the leak", got[0].Name)
	})

	t.Run("all lines guarded yields nothing", func(t *testing.T) {
		assert.Empty(t, p.Extract("SIGNAL: Here is what I would focus on"))
	})

	t.Run("summary sentence is never a candidate", func(t *testing.T) {
		assert.Empty(t, p.Extract("Your top signal right now: Ship release"))
	})

	t.Run("short names rejected", func(t *testing.T) {
		assert.Empty(t, p.Extract("🟢 SIGNAL: ok"))
	})
}

func TestExtractDedup(t *testing.T) {
	p := newTestParser()

	resp := "```json\n" +
		`{"items": [` +
		`{"name": "Review budget", "classification": "SIGNAL", "what": "first"},` +
		`{"name": "review budget!", "classification": "NOISE", "what": "second"}` +
		`]}` + "\n```"
	got := p.Extract(resp)
	require.Len(t, got, 1)
	assert.Equal(t, "Review budget", got[0].Name)
	assert.Equal(t, models.ClassSignal, got[0].Classification)
	assert.Equal(t, "first", got[0].What)
}

func TestExtractNothing(t *testing.T) {
	p := newTestParser()
	assert.Empty(t, p.Extract("Just a friendly chat, nothing actionable here."))
	assert.Empty(t, p.Extract(""))
}
