package synonym

import (
	"fmt"
	"strings"

	"github.com/dailyyoga/syndict/reload"
)

// compiler turns Solr-format rules into lookup tables
type compiler struct {
	expand        bool
	lenient       bool
	caseSensitive bool
}

// NewCompiler creates a compiler for the configured rule dialect
// A nil cfg uses the defaults: expand on, strict, case-insensitive
func NewCompiler(cfg *CompilerConfig) reload.Compiler[*Table] {
	if cfg == nil {
		cfg = DefaultCompilerConfig()
	}
	return &compiler{
		expand:        cfg.Expand,
		lenient:       cfg.Lenient,
		caseSensitive: cfg.CaseSensitive,
	}
}

// Compile builds an immutable table from raw rules
// Comment and blank lines are skipped; malformed rules fail the compile
// unless the compiler is lenient, in which case they are dropped
func (c *compiler) Compile(rules []string) (*Table, error) {
	b := newBuilder(c.caseSensitive)
	for i, rule := range rules {
		line := strings.TrimSpace(rule)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.compileRule(b, line); err != nil {
			if c.lenient {
				continue
			}
			return nil, ErrMalformedRule(i+1, rule, err)
		}
		b.ruleCount++
	}
	return b.build(), nil
}

func (c *compiler) compileRule(b *builder, line string) error {
	if idx := mappingIndex(line); idx >= 0 {
		inputs, err := parseTerms(line[:idx], c.caseSensitive)
		if err != nil {
			return err
		}
		outputs, err := parseTerms(line[idx+2:], c.caseSensitive)
		if err != nil {
			return err
		}
		for _, in := range inputs {
			b.add(in, outputs)
		}
		return nil
	}

	group, err := parseTerms(line, c.caseSensitive)
	if err != nil {
		return err
	}
	if c.expand {
		for _, term := range group {
			b.add(term, group)
		}
		return nil
	}
	first := group[:1]
	for _, term := range group {
		b.add(term, first)
	}
	return nil
}

// mappingIndex returns the position of the first unescaped "=>" arrow,
// or -1 for an equivalence group
func mappingIndex(s string) int {
	escaped := false
	for i := 0; i < len(s)-1; i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '=' && s[i+1] == '>':
			return i
		}
	}
	return -1
}

// parseTerms splits one side of a rule on unescaped commas, trims each
// term and resolves backslash escapes
func parseTerms(s string, caseSensitive bool) ([]string, error) {
	parts := splitEscaped(s, ',')
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		term := strings.TrimSpace(p)
		if term == "" {
			return nil, fmt.Errorf("empty term")
		}
		if !caseSensitive {
			term = strings.ToLower(term)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// splitEscaped splits s on sep while dropping the backslashes that
// escape separators or other characters
func splitEscaped(s string, sep byte) []string {
	parts := make([]string, 0, strings.Count(s, string(sep))+1)
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == sep:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String())
}

// builder accumulates table entries, merging duplicate terms by union
// while preserving the order synonyms first appeared in
type builder struct {
	caseSensitive bool
	entries       map[string][]string
	seen          map[string]map[string]struct{}
	ruleCount     int
}

func newBuilder(caseSensitive bool) *builder {
	return &builder{
		caseSensitive: caseSensitive,
		entries:       make(map[string][]string),
		seen:          make(map[string]map[string]struct{}),
	}
}

func (b *builder) add(term string, syns []string) {
	set, ok := b.seen[term]
	if !ok {
		set = make(map[string]struct{}, len(syns))
		b.seen[term] = set
	}
	for _, s := range syns {
		if _, dup := set[s]; dup {
			continue
		}
		set[s] = struct{}{}
		b.entries[term] = append(b.entries[term], s)
	}
}

func (b *builder) build() *Table {
	return &Table{
		entries:       b.entries,
		ruleCount:     b.ruleCount,
		caseSensitive: b.caseSensitive,
	}
}
