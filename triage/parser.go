package triage

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pb2jamz/Signal-Sorter/models"
)

// Candidate is a task record extracted from a completion response, not yet
// reconciled against the persisted item set.
type Candidate struct {
	Name           string
	Classification models.Classification
	What           string
	Why            string
	NextAction     string
}

// ParserConfig holds the tunable parts of extraction. The guard phrases
// mark model commentary ("Your top signal right now: ...") that the marker
// grammar would otherwise mistake for a task line.
type ParserConfig struct {
	MinNameLength int
	GuardPhrases  []string
}

// DefaultGuardPhrases are substrings of cleaned names that indicate a
// summary sentence rather than a task.
var DefaultGuardPhrases = []string{
	"your top", "here's", "here is", "let me", "based on",
	"i recommend", "i suggest", "looking at", "to summarize",
}

// DefaultParserConfig returns the stock extraction settings.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MinNameLength: 3,
		GuardPhrases:  DefaultGuardPhrases,
	}
}

// Parser extracts candidates from completion text using an ordered list of
// grammars: the structured JSON tier first, the marker-glyph regex tier as
// fallback. The first grammar producing at least one accepted candidate wins.
type Parser struct {
	cfg ParserConfig
	log zerolog.Logger
}

// NewParser creates a parser with the given config and logger.
func NewParser(cfg ParserConfig, logger zerolog.Logger) *Parser {
	if cfg.MinNameLength <= 0 {
		cfg.MinNameLength = 3
	}
	if cfg.GuardPhrases == nil {
		cfg.GuardPhrases = DefaultGuardPhrases
	}
	return &Parser{cfg: cfg, log: logger}
}

// grammar is one extraction strategy. Guarded grammars run their output
// through the commentary-phrase filter; the JSON tier is trusted as-is.
type grammar struct {
	name    string
	guarded bool
	extract func(string) []Candidate
}

func (p *Parser) grammars() []grammar {
	return []grammar{
		{name: "json", guarded: false, extract: extractJSONItems},
		{name: "marker", guarded: true, extract: extractMarkerLines},
	}
}

// Extract returns the candidates found in responseText, at most one per
// normalized name (first occurrence wins). A response with no extractable
// items yields nil; that is routine, not an error.
func (p *Parser) Extract(responseText string) []Candidate {
	for _, g := range p.grammars() {
		raw := g.extract(responseText)
		if len(raw) == 0 {
			continue
		}
		accepted := p.filter(raw, g.guarded)
		p.log.Debug().
			Str("grammar", g.name).
			Int("raw", len(raw)).
			Int("accepted", len(accepted)).
			Msg("extraction tier attempted")
		if len(accepted) > 0 {
			return accepted
		}
	}
	return nil
}

// filter applies the shared clean/length/dedup rules, plus the commentary
// guard for guarded grammars.
func (p *Parser) filter(raw []Candidate, guarded bool) []Candidate {
	seen := make(map[string]struct{}, len(raw))
	var out []Candidate
	for _, c := range raw {
		name := CleanName(c.Name)
		if utf8.RuneCountInString(name) < p.cfg.MinNameLength {
			continue
		}
		if guarded && p.isCommentary(name) {
			continue
		}
		key := Normalize(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		c.Name = name
		out = append(out, c)
	}
	return out
}

func (p *Parser) isCommentary(name string) bool {
	lower := strings.ToLower(name)
	for _, phrase := range p.cfg.GuardPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// --- structured JSON tier ---

var fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// extractJSONItems scans fenced code blocks for a JSON payload: either a
// top-level array or an object with an "items" array. Malformed JSON never
// raises; the block is skipped and the caller falls through to the next
// grammar. Field keys are matched exactly (case-sensitive) per the output
// contract the prompt specifies.
func extractJSONItems(responseText string) []Candidate {
	for _, m := range fencedBlockRe.FindAllStringSubmatch(responseText, -1) {
		content := []byte(strings.TrimSpace(m[1]))
		if len(content) == 0 {
			continue
		}

		elements := decodeItemElements(content)
		if len(elements) == 0 {
			continue
		}

		var out []Candidate
		for _, el := range elements {
			if c, ok := candidateFromElement(el); ok {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// decodeItemElements accepts either `[...]` or `{"items": [...]}` and
// returns the raw element objects.
func decodeItemElements(content []byte) []map[string]json.RawMessage {
	var elements []map[string]json.RawMessage
	if err := json.Unmarshal(content, &elements); err == nil {
		return elements
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(content, &wrapper); err != nil {
		return nil
	}
	itemsRaw, ok := wrapper["items"]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(itemsRaw, &elements); err != nil {
		return nil
	}
	return elements
}

// candidateFromElement validates one parsed element: name and a known
// classification are required, elaboration fields default to empty.
func candidateFromElement(el map[string]json.RawMessage) (Candidate, bool) {
	name := stringField(el, "name")
	classRaw := stringField(el, "classification")
	if name == "" || classRaw == "" {
		return Candidate{}, false
	}
	class, err := models.ParseClassification(classRaw)
	if err != nil {
		return Candidate{}, false
	}
	return Candidate{
		Name:           name,
		Classification: class,
		What:           stringField(el, "what"),
		Why:            stringField(el, "why"),
		NextAction:     stringField(el, "next"),
	}, true
}

func stringField(el map[string]json.RawMessage, key string) string {
	raw, ok := el[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// --- marker-glyph fallback tier ---

// classMarkers maps each classification to its fixed display glyph, in tag
// scan order.
var classMarkers = []struct {
	class models.Classification
	glyph string
}{
	{models.ClassSignal, "🟢"},
	{models.ClassNecessary, "🟡"},
	{models.ClassNoise, "🔴"},
}

type markerPatterns struct {
	class  models.Classification
	full   *regexp.Regexp // glyph + tag + name + pipe-delimited fields
	simple *regexp.Regexp // tag + free text to end of line
}

var markerGrammar []markerPatterns

var fieldRe = regexp.MustCompile(`(?i)^\s*(WHAT|WHY|NEXT)\s*:\s*(.*)$`)

func init() {
	for _, m := range classMarkers {
		tag := regexp.QuoteMeta(string(m.class))
		glyph := regexp.QuoteMeta(m.glyph)
		markerGrammar = append(markerGrammar, markerPatterns{
			class:  m.class,
			full:   regexp.MustCompile(`(?i)^\s*` + glyph + `\s*` + tag + `\s*[:\-]\s*([^|]+)\|(.+)$`),
			simple: regexp.MustCompile(`(?i)^\s*(?:` + glyph + `\s*)?` + tag + `\s*[:\-]\s*(.+)$`),
		})
	}
}

// extractMarkerLines scans every line for the marker-glyph task patterns,
// line order outer, tag order inner. The full pipe-delimited pattern is
// tried first; the simple tag-to-end-of-line pattern is the per-line
// fallback. At most one candidate is taken per line.
func extractMarkerLines(responseText string) []Candidate {
	var out []Candidate
	for _, line := range strings.Split(responseText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, mp := range markerGrammar {
			if m := mp.full.FindStringSubmatch(line); m != nil {
				c := Candidate{Name: strings.TrimSpace(m[1]), Classification: mp.class}
				applyPipeFields(&c, m[2])
				out = append(out, c)
				break
			}
			if m := mp.simple.FindStringSubmatch(line); m != nil {
				out = append(out, Candidate{
					Name:           strings.TrimSpace(m[1]),
					Classification: mp.class,
				})
				break
			}
		}
	}
	return out
}

// applyPipeFields parses the optional `| WHAT: ... | WHY: ... | NEXT: ...`
// tail of a full marker line.
func applyPipeFields(c *Candidate, tail string) {
	for _, segment := range strings.Split(tail, "|") {
		m := fieldRe.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		switch strings.ToUpper(m[1]) {
		case "WHAT":
			c.What = value
		case "WHY":
			c.Why = value
		case "NEXT":
			c.NextAction = value
		}
	}
}

// String implements fmt.Stringer for log readability.
func (c Candidate) String() string {
	return fmt.Sprintf("[%s] %s", c.Classification, c.Name)
}
