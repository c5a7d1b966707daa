package triage

import (
	"fmt"
	"strings"

	"github.com/pb2jamz/Signal-Sorter/models"
)

// Mode selects how the assistant is instructed to respond.
type Mode string

const (
	// ModeClassify asks the assistant to triage the user's message into new
	// classified items, emitted in the structured output contract.
	ModeClassify Mode = "classify"
	// ModeReprioritize asks for a ranked verdict over existing items only;
	// no new items and no structured output.
	ModeReprioritize Mode = "reprioritize"
)

// recentCompletedCount is how many recently completed items the
// reprioritize instruction includes for context.
const recentCompletedCount = 5

// BuildPrompt renders the system instruction sent to the completion service.
// Pure: it only formats its inputs. completed is expected ordered most
// recently completed first.
func BuildPrompt(profile models.Profile, active, completed []models.Item, mode Mode) string {
	var b strings.Builder

	b.WriteString("You are Signal Sorter, a decisive personal task triage assistant. ")
	b.WriteString("You classify everything the user is carrying into exactly one of three tiers:\n")
	b.WriteString("- SIGNAL: high impact, directly advances a stated priority\n")
	b.WriteString("- NECESSARY: required but not high impact, batchable\n")
	b.WriteString("- NOISE: low value, should be deferred, delegated or dropped\n")

	writeContextBlock(&b, profile)

	if mode == ModeReprioritize {
		writeReprioritizeInstruction(&b, active, completed)
		return b.String()
	}

	writeClassifyInstruction(&b, active)
	return b.String()
}

// writeContextBlock renders the user context section, omitting empty fields.
func writeContextBlock(b *strings.Builder, profile models.Profile) {
	if profile.IsEmpty() {
		return
	}

	b.WriteString("\nUSER CONTEXT:\n")
	lines := []struct {
		label, value string
	}{
		{"Name", profile.Name},
		{"Role", profile.Role},
		{"Priorities", profile.Priorities},
		{"Goals", profile.Goals},
		{"Workday starts", profile.WorkdayStart},
		{"Focus challenge", profile.FocusChallenge},
	}
	for _, line := range lines {
		if line.value != "" {
			fmt.Fprintf(b, "- %s: %s\n", line.label, line.value)
		}
	}
}

func writeActiveItems(b *strings.Builder, active []models.Item) {
	b.WriteString("\nCURRENTLY TRACKED ITEMS:\n")
	if len(active) == 0 {
		b.WriteString("- none yet\n")
		return
	}
	for _, item := range active {
		fmt.Fprintf(b, "- [%s] %s\n", item.Classification, item.Name)
	}
}

func writeClassifyInstruction(b *strings.Builder, active []models.Item) {
	writeActiveItems(b, active)

	b.WriteString(`
Reply conversationally first. Then include a fenced code block tagged json
containing a JSON object with this exact shape:

` + "```json" + `
{"items": [{"name": "Short task name", "classification": "SIGNAL", "what": "what it is", "why": "why it matters", "next": "first concrete step"}]}
` + "```" + `

Rules:
- "classification" must be exactly SIGNAL, NECESSARY or NOISE
- Keep names short (under 8 words) and action-oriented
- Be decisive; never hedge between two tiers
- Do not re-add items that are already tracked above
- End your reply with a single line: Top signal: <the one thing to do first>
`)
}

func writeReprioritizeInstruction(b *strings.Builder, active, completed []models.Item) {
	writeActiveItems(b, active)

	recent := completed
	if len(recent) > recentCompletedCount {
		recent = recent[:recentCompletedCount]
	}
	if len(recent) > 0 {
		b.WriteString("\nRECENTLY COMPLETED (context only, do not re-add):\n")
		for _, item := range recent {
			fmt.Fprintf(b, "- [%s] %s\n", item.Classification, item.Name)
		}
	}

	b.WriteString(`
The user wants a fresh look at what they already track. Give a ranked
verdict over the tracked items above: what to attack first and what to let
go, in plain prose.

Rules:
- Do NOT create new items
- Do NOT output any structured block; prose only
- Be decisive and brief
`)
}
