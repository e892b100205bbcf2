package lang

import (
	"bufio"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MAD-X statements are line-oriented: one or more ";"-terminated commands
// per line, with "!" starting a comment that runs to end of line.
var (
	// name: type, args...;
	reCommand = regexp.MustCompile(
		`^\s*(?:([a-zA-Z][\w.]*)\s*:)?\s*([a-zA-Z][\w.]*)\s*(,.*)?;\s*$`,
	)

	// name: LINE=(a, b, ...);
	reLineStatement = regexp.MustCompile(
		`(?i)^\s*(?:([a-zA-Z][\w.]*)\s*:)?\s*LINE\s*=\s*\(([^()]*)\)\s*;\s*$`,
	)

	// , key = value  or  , key := value
	reArgument = regexp.MustCompile(
		`,\s*([a-zA-Z][\w.]*)\s*(:?=)\s*((?:"[^"]*")|(?:\{[^}]*\})|(?:[^\s,;!]+))\s*`,
	)

	// CODE ! COMMENT
	reCommentSplit = regexp.MustCompile(`^([^!]*)(!.*)?$`)
)

// ParseElement parses one MAD-X command statement of the form
// "[name: ]type[, key[=value]]*;" into an [Element].
// Text that does not match the command grammar is [ErrGrammar].
func ParseElement(text string) (*Element, error) {
	m := reCommand.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrGrammar.With(slog.String("statement", text))
	}

	args, err := parseArguments(m[3])
	if err != nil {
		return nil, err
	}

	return NewElement(m[1], m[2], args, nil), nil
}

// ParseLineStatement parses a MAD-X LINE statement of the form
// "name: LINE=(a, b, ...);". Text that does not match is [ErrGrammar].
func ParseLineStatement(text string) (*Line, error) {
	m := reLineStatement.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrGrammar.With(slog.String("statement", text))
	}

	var names []string

	for _, name := range strings.Split(m[2], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	return &Line{Name: m[1], Elems: names}, nil
}

// parseArguments parses the ", key=value, ..." tail of a command statement
// into an ordered argument map.
func parseArguments(text string) (*Args, error) {
	args := &Args{}

	for _, m := range reArgument.FindAllStringSubmatch(text, -1) {
		value, err := ParseValue(m[3], m[2] == ":=")
		if err != nil {
			return nil, err
		}

		args.Set(m[1], value)
	}

	return args, nil
}

// ParseStatements parses a single physical input line into zero or more
// nodes: a trailing comment becomes a [Text] node, each ";"-terminated
// command becomes an [Element], [Line], or opaque [Text] statement, and a
// line holding nothing else becomes an empty [Text] node so blank lines
// survive a round trip.
//
// A command left unterminated at end of line is [ErrMultiLineCommand].
func ParseStatements(line string) ([]Node, error) {
	m := reCommentSplit.FindStringSubmatch(line)
	code, comment := m[1], m[2]

	var nodes []Node

	if comment != "" {
		nodes = append(nodes, Text(comment))
	}

	commands := strings.Split(strings.TrimSpace(code), ";")
	if commands[len(commands)-1] != "" {
		return nil, ErrMultiLineCommand.With(
			slog.String("command", commands[len(commands)-1]),
		)
	}

	for _, command := range commands[:len(commands)-1] {
		statement := command + ";"

		if elem, err := ParseElement(statement); err == nil {
			nodes = append(nodes, elem)

			continue
		}

		if ln, err := ParseLineStatement(statement); err == nil {
			nodes = append(nodes, ln)

			continue
		}

		// Preserve statements madseq does not understand.
		nodes = append(nodes, Text(statement))
	}

	if len(commands) == 1 && comment == "" {
		nodes = append(nodes, Text(""))
	}

	return nodes, nil
}

// ParseDocument reads MAD-X source line by line, parses each statement, and
// groups SEQUENCE..ENDSEQUENCE sections and LINE statements into [Sequence]
// nodes.
func ParseDocument(r io.Reader, opts ...ParseOption) (*Document, error) {
	var cfg parseConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	var nodes []Node

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++

		parsed, err := ParseStatements(scanner.Text())
		if err != nil {
			return nil, WrapError(err).With(slog.Int("line", lineno))
		}

		nodes = append(nodes, parsed...)
	}

	if err := scanner.Err(); err != nil {
		return nil, WrapError(err)
	}

	cfg.logger.Trace(
		"statements parsed",
		slog.Int("lines", lineno),
		slog.Int("nodes", len(nodes)),
	)

	grouped, err := DetectSequences(nodes, cfg.inline)
	if err != nil {
		return nil, err
	}

	return &Document{Nodes: grouped}, nil
}

// ParseString parses MAD-X source held in a string. See [ParseDocument].
func ParseString(source string, opts ...ParseOption) (*Document, error) {
	return ParseDocument(strings.NewReader(source), opts...)
}
