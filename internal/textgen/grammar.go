package textgen

import (
	"strings"
)

// FieldKind says how a labelled field's value is read.
type FieldKind int

const (
	// Line takes the text after the label on the same line.
	Line FieldKind = iota
	// Block takes the text after the label up to the next known label.
	Block
	// Bullets takes the "- " lines following the label.
	Bullets
)

// Field is one labelled entry of a reply grammar.
type Field struct {
	Label    string
	Kind     FieldKind
	Required bool
}

// Grammar is the pinned line format a reply must follow.
type Grammar struct {
	Name   string
	Fields []Field
}

// Parsed holds the fields found in a reply.
type Parsed struct {
	values  map[string]string
	bullets map[string][]string
}

func (p Parsed) Value(label string) string {
	return p.values[label]
}

func (p Parsed) Bullets(label string) []string {
	return p.bullets[label]
}

var (
	assessmentGrammar = Grammar{
		Name: "risk assessment",
		Fields: []Field{
			{Label: "RISK_LEVEL", Kind: Line, Required: true},
			{Label: "CONFIDENCE", Kind: Line, Required: true},
			{Label: "EXPLANATION", Kind: Block, Required: true},
			{Label: "RECOMMENDATIONS", Kind: Bullets},
		},
	}

	questionGrammar = Grammar{
		Name: "follow-up question",
		Fields: []Field{
			{Label: "QUESTION", Kind: Line, Required: true},
			{Label: "OPTION A", Kind: Line, Required: true},
			{Label: "OPTION B", Kind: Line, Required: true},
			{Label: "OPTION C", Kind: Line, Required: true},
			{Label: "OPTION D", Kind: Line, Required: true},
		},
	}
)

// Parse reads raw against g. A reply missing any required field yields a
// *MalformedResponseError carrying raw.
func (g Grammar) Parse(raw string) (Parsed, error) {
	p := Parsed{values: map[string]string{}, bullets: map[string][]string{}}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var (
		current *Field
		block   []string
	)
	flush := func() {
		if current != nil && current.Kind == Block {
			p.values[current.Label] = strings.TrimSpace(strings.Join(block, "\n"))
		}
		current, block = nil, nil
	}

	for _, line := range lines {
		if f, rest, ok := g.match(line); ok {
			if _, seen := p.values[f.Label]; seen {
				// first occurrence wins
				continue
			}
			flush()
			switch f.Kind {
			case Line:
				p.values[f.Label] = rest
			case Block:
				current = f
				block = []string{rest}
			case Bullets:
				current = f
				p.values[f.Label] = rest
				p.bullets[f.Label] = []string{}
			}
			continue
		}
		if current == nil {
			continue
		}

		switch current.Kind {
		case Block:
			block = append(block, line)
		case Bullets:
			item, ok := bullet(line)
			switch {
			case ok:
				p.bullets[current.Label] = append(p.bullets[current.Label], item)
			case strings.TrimSpace(line) == "":
			default:
				current = nil
			}
		}
	}
	flush()

	var missing []string
	for _, f := range g.Fields {
		v, ok := p.values[f.Label]
		if f.Required && (!ok || (f.Kind != Bullets && v == "")) {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return Parsed{}, &MalformedResponseError{Grammar: g.Name, Missing: missing, Raw: raw}
	}
	return p, nil
}

// match reports whether line starts with one of the grammar labels.
func (g Grammar) match(line string) (*Field, string, bool) {
	s := strings.TrimLeft(strings.TrimSpace(line), "*#> ")
	for i := range g.Fields {
		f := &g.Fields[i]
		if !strings.HasPrefix(strings.ToUpper(s), f.Label) {
			continue
		}
		rest := strings.TrimLeft(s[len(f.Label):], "* ")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		rest = strings.TrimLeft(rest[1:], "* ")
		return f, strings.TrimSpace(rest), true
	}
	return nil, "", false
}

func bullet(line string) (string, bool) {
	s := strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(s, marker) {
			return strings.TrimSpace(s[len(marker):]), true
		}
	}
	return "", false
}
