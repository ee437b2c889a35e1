package lily

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/auxloop/model"
)

var dynamics = map[string]bool{
	"pppp": true, "ppp": true, "pp": true, "p": true, "mp": true,
	"mf": true, "f": true, "ff": true, "fff": true, "ffff": true,
	"sf": true, "sfz": true, "fp": true, "rfz": true, "sfp": true,
}

var articulationCommands = map[string]bool{
	"staccato": true, "accent": true, "marcato": true, "tenuto": true,
	"portato": true, "staccatissimo": true, "fermata": true, "espressivo": true,
}

var shorthandArticulation = map[string]string{
	"-.": "staccato",
	"->": "accent",
	"-^": "marcato",
	"--": "tenuto",
	"-_": "portato",
	"-!": "staccatissimo",
}

func isSingle(r byte) bool {
	return r == '{' || r == '}' || r == '~' || r == '(' || r == ')' || r == '|'
}

func isSpace(r byte) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// scan splits LilyPond input into tokens, keeping chords and quoted
// strings whole.
func scan(input string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case isSpace(ch):
			i++
		case ch == '%':
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case isSingle(ch):
			toks = append(toks, string(ch))
			i++
		case ch == '"':
			j := strings.IndexByte(input[i+1:], '"')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated string", model.ErrStructure)
			}
			toks = append(toks, input[i:i+j+2])
			i += j + 2
		case (ch == '^' || ch == '_' || ch == '-') && i+1 < len(input) && input[i+1] == '"':
			j := strings.IndexByte(input[i+2:], '"')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated markup", model.ErrStructure)
			}
			toks = append(toks, input[i:i+j+3])
			i += j + 3
		case ch == '-' && i+1 < len(input) && strings.IndexByte(".>^-_!\\", input[i+1]) >= 0:
			if input[i+1] == '\\' {
				j := i + 2
				for j < len(input) && isLetter(input[j]) {
					j++
				}
				toks = append(toks, input[i:j])
				i = j
			} else {
				toks = append(toks, input[i:i+2])
				i += 2
			}
		case ch == '<':
			j := strings.IndexByte(input[i:], '>')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated chord", model.ErrStructure)
			}
			k := i + j + 1
			k = scanDuration(input, k)
			toks = append(toks, input[i:k])
			i = k
		case ch == '\\':
			j := i + 1
			for j < len(input) && isLetter(input[j]) {
				j++
			}
			toks = append(toks, input[i:j])
			i = j
		default:
			j := i
			for j < len(input) && !isSpace(input[j]) && !isSingle(input[j]) && input[j] != '\\' && input[j] != '-' {
				j++
			}
			if j < len(input) && input[j] == '\\' && strings.HasPrefix(input[j:], "\\breve") {
				j = scanDuration(input, j)
			}
			if j == i {
				return nil, fmt.Errorf("%w: unexpected %q", model.ErrStructure, ch)
			}
			toks = append(toks, input[i:j])
			i = j
		}
	}
	return toks, nil
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func scanDuration(input string, k int) int {
	if strings.HasPrefix(input[k:], "\\breve") {
		k += len("\\breve")
	}
	for k < len(input) && strings.IndexByte("0123456789.*/", input[k]) >= 0 {
		k++
	}
	return k
}

type parser struct {
	toks      []string
	pos       int
	out       model.Container
	duration  model.Duration
	pendingTS model.TimeSignature
	pendingCl string
	tuplets   []tupletFrame
	braces    []bool
	nextID    int
}

type tupletFrame struct {
	id    int
	ratio model.Duration
}

// Parse reads a fragment of LilyPond music into a container. Durations
// carry over from the previous leaf and default to a quarter.
func Parse(input string) (model.Container, error) {
	toks, err := scan(input)
	if err != nil {
		return model.Container{}, err
	}
	p := &parser{toks: toks, duration: model.D(1, 4)}
	if err := p.run(); err != nil {
		return model.Container{}, err
	}
	if err := p.out.Validate(); err != nil {
		return model.Container{}, err
	}
	return p.out, nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(input string) model.Container {
	c, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return c
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *parser) last() (*model.Leaf, error) {
	if len(p.out.Leaves) == 0 {
		return nil, fmt.Errorf("%w: post-event before any leaf", model.ErrStructure)
	}
	return &p.out.Leaves[len(p.out.Leaves)-1], nil
}

func (p *parser) attach(ind model.Indicator) error {
	l, err := p.last()
	if err != nil {
		return err
	}
	l.Indicators = append(l.Indicators, ind)
	return nil
}

func (p *parser) run() error {
	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		if err := p.token(tok); err != nil {
			return err
		}
	}
	if len(p.tuplets) > 0 {
		return fmt.Errorf("%w: unclosed tuplet", model.ErrStructure)
	}
	if len(p.braces) > 0 {
		return fmt.Errorf("%w: unclosed brace", model.ErrStructure)
	}
	return nil
}

func (p *parser) token(tok string) error {
	switch {
	case tok == "{":
		p.braces = append(p.braces, false)
	case tok == "}":
		if len(p.braces) == 0 {
			return fmt.Errorf("%w: unbalanced braces", model.ErrStructure)
		}
		if p.braces[len(p.braces)-1] {
			p.tuplets = p.tuplets[:len(p.tuplets)-1]
		}
		p.braces = p.braces[:len(p.braces)-1]
	case tok == "|":
	case tok == "~":
		l, err := p.last()
		if err != nil {
			return err
		}
		l.Tie = true
	case tok == "(":
		return p.attach(model.Indicator{Kind: model.SlurStart})
	case tok == ")":
		return p.attach(model.Indicator{Kind: model.SlurStop})
	case shorthandArticulation[tok] != "":
		return p.attach(model.Indicator{Kind: model.Articulation, Value: shorthandArticulation[tok]})
	case strings.HasPrefix(tok, "-\\"):
		return p.attach(model.Indicator{Kind: model.Articulation, Value: tok[2:]})
	case len(tok) > 1 && strings.IndexByte("^_-", tok[0]) >= 0 && tok[1] == '"':
		return p.attach(model.Indicator{Kind: model.Markup, Value: strings.Trim(tok[1:], "\"")})
	case strings.HasPrefix(tok, "\\"):
		return p.command(tok[1:])
	case strings.HasPrefix(tok, "*"):
		return p.scaleLast(tok)
	default:
		return p.leaf(tok)
	}
	return nil
}

func (p *parser) command(name string) error {
	switch {
	case name == "time":
		arg, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: \\time needs a fraction", model.ErrStructure)
		}
		num, den, err := parseFraction(arg)
		if err != nil {
			return err
		}
		ts := model.TimeSignature{Numerator: int(num), Denominator: int(den)}
		if !ts.Valid() {
			return fmt.Errorf("%w: invalid time signature %s", model.ErrStructure, arg)
		}
		p.pendingTS = ts
	case name == "clef":
		arg, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: \\clef needs a name", model.ErrStructure)
		}
		p.pendingCl = strings.Trim(arg, "\"")
	case name == "times" || name == "tuplet":
		arg, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: \\%s needs a fraction", model.ErrStructure, name)
		}
		num, den, err := parseFraction(arg)
		if err != nil {
			return err
		}
		if num <= 0 || den <= 0 {
			return fmt.Errorf("%w: \\%s needs a positive fraction, got %s", model.ErrStructure, name, arg)
		}
		ratio := model.D(num, den)
		if name == "tuplet" {
			ratio = model.D(den, num)
		}
		if brace, ok := p.next(); !ok || brace != "{" {
			return fmt.Errorf("%w: \\%s must be followed by {", model.ErrStructure, name)
		}
		if len(p.tuplets) > 0 {
			ratio = ratio.Mul(p.tuplets[len(p.tuplets)-1].ratio)
		}
		p.nextID++
		p.tuplets = append(p.tuplets, tupletFrame{id: p.nextID, ratio: ratio})
		p.braces = append(p.braces, true)
	case name == "new":
		p.next()
	case dynamics[name]:
		return p.attach(model.Indicator{Kind: model.Dynamic, Value: name})
	case articulationCommands[name]:
		return p.attach(model.Indicator{Kind: model.Articulation, Value: name})
	default:
		return fmt.Errorf("%w: unsupported command \\%s", model.ErrStructure, name)
	}
	return nil
}

// scaleLast applies a detached "* 3/4" to the previous leaf, as written
// after multimeasure rests.
func (p *parser) scaleLast(tok string) error {
	arg := strings.TrimPrefix(tok, "*")
	if arg == "" {
		next, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: dangling *", model.ErrStructure)
		}
		arg = next
	}
	num, den, err := parseFraction(arg)
	if err != nil {
		return err
	}
	if num <= 0 || den <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %s", model.ErrStructure, arg)
	}
	l, err := p.last()
	if err != nil {
		return err
	}
	l.Multiplier = l.Ratio().Mul(model.D(num, den))
	return nil
}

func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad number %q", model.ErrStructure, s)
	}
	den := int64(1)
	if len(parts) == 2 {
		den, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil || den == 0 {
			return 0, 0, fmt.Errorf("%w: bad fraction %q", model.ErrStructure, s)
		}
	}
	return num, den, nil
}

func (p *parser) leaf(tok string) error {
	var leaf model.Leaf
	var rest string
	switch {
	case tok[0] == '<':
		end := strings.IndexByte(tok, '>')
		var pitches []model.Pitch
		for _, f := range strings.Fields(tok[1:end]) {
			pitch, tail, err := parsePitch(f)
			if err != nil {
				return err
			}
			if tail != "" {
				return fmt.Errorf("%w: unexpected %q in chord", model.ErrStructure, tail)
			}
			pitches = append(pitches, pitch)
		}
		if len(pitches) == 0 {
			return fmt.Errorf("%w: empty chord", model.ErrStructure)
		}
		leaf = model.Leaf{Kind: model.ChordKind, Pitches: pitches}
		if len(pitches) == 1 {
			leaf.Kind = model.NoteKind
		}
		rest = tok[end+1:]
	case tok[0] == 'r' || tok[0] == 's':
		leaf = model.Leaf{Kind: model.RestKind}
		rest = tok[1:]
	case tok[0] == 'R':
		leaf = model.Leaf{Kind: model.MultimeasureRestKind}
		rest = tok[1:]
	default:
		pitch, tail, err := parsePitch(tok)
		if err != nil {
			return err
		}
		leaf = model.NewNote(pitch, model.Duration{})
		rest = tail
	}
	written, scale, err := p.parseDuration(rest)
	if err != nil {
		return err
	}
	leaf.Written = written
	if !scale.IsZero() {
		if leaf.Kind == model.MultimeasureRestKind {
			leaf.Multiplier = scale
		} else {
			leaf.Written = written.Mul(scale)
		}
	}
	if len(p.tuplets) > 0 {
		f := p.tuplets[len(p.tuplets)-1]
		leaf.Tuplet = f.id
		leaf.Multiplier = f.ratio
	}
	if !p.pendingTS.IsZero() {
		leaf.TimeSignature = p.pendingTS
		p.pendingTS = model.TimeSignature{}
	}
	if p.pendingCl != "" {
		leaf.Indicators = append(leaf.Indicators, model.Indicator{Kind: model.Clef, Value: p.pendingCl})
		p.pendingCl = ""
	}
	p.out.Leaves = append(p.out.Leaves, leaf)
	return nil
}

func (p *parser) parseDuration(s string) (model.Duration, model.Duration, error) {
	var scale model.Duration
	if i := strings.IndexByte(s, '*'); i >= 0 {
		num, den, err := parseFraction(s[i+1:])
		if err != nil {
			return model.Duration{}, model.Duration{}, err
		}
		scale = model.D(num, den)
		s = s[:i]
	}
	dots := strings.Count(s, ".")
	s = strings.TrimRight(s, ".")
	if s == "" {
		if dots > 0 {
			return model.Duration{}, model.Duration{}, fmt.Errorf("%w: dots without a duration", model.ErrStructure)
		}
		return p.duration, scale, nil
	}
	var base model.Duration
	if s == "\\breve" {
		base = model.Whole(2)
	} else {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 || n&(n-1) != 0 {
			return model.Duration{}, model.Duration{}, fmt.Errorf("%w: bad duration %q", model.ErrStructure, s)
		}
		base = model.D(1, n)
	}
	d := base
	add := base
	for i := 0; i < dots; i++ {
		add = add.Div(model.Whole(2))
		d = d.Add(add)
	}
	p.duration = d
	return d, scale, nil
}

var letters = map[byte]int{'c': 0, 'd': 1, 'e': 2, 'f': 3, 'g': 4, 'a': 5, 'b': 6}

var accidentals = []struct {
	suffix string
	alter  int
}{
	{"isis", 2}, {"eses", -2}, {"ss", 2}, {"ff", -2},
	{"is", 1}, {"es", -1}, {"s", 1}, {"f", -1},
}

// parsePitch reads a pitch such as "fs''" or "bes," and returns what is
// left of the token.
func parsePitch(tok string) (model.Pitch, string, error) {
	name, ok := letters[tok[0]]
	if !ok {
		return model.Pitch{}, "", fmt.Errorf("%w: unknown token %q", model.ErrStructure, tok)
	}
	p := model.Pitch{Notename: name, Octave: -1}
	s := tok[1:]
	for _, acc := range accidentals {
		if strings.HasPrefix(s, acc.suffix) {
			p.Alteration = acc.alter
			s = s[len(acc.suffix):]
			break
		}
	}
	for len(s) > 0 && (s[0] == '\'' || s[0] == ',') {
		if s[0] == '\'' {
			p.Octave++
		} else {
			p.Octave--
		}
		s = s[1:]
	}
	return p, s, nil
}
