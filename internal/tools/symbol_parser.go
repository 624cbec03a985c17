package tools

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/agusespa/docpilot/internal/types"
)

type LanguageParser interface {
	// ParseFile extracts named declarations from a file
	ParseFile(filePath string, content []byte) ([]types.Symbol, error)

	// SupportedExtensions returns the file extensions this parser can handle
	SupportedExtensions() []string

	// Language returns the human-readable name of the language this parser handles
	Language() string
}

// nameFunc returns the declared name of a captured node, or "" to skip it.
type nameFunc func(node *sitter.Node, src []byte) string

// TreeSitterParser runs a single declaration query. Capture names double as
// the symbol kind. A tree-sitter parser is not safe for concurrent use, so
// parsing is serialized per language.
type TreeSitterParser struct {
	mu         sync.Mutex
	name       string
	extensions []string
	parser     *sitter.Parser
	query      *sitter.Query
	nameOf     nameFunc
}

func newTreeSitterParser(name string, extensions []string, lang *sitter.Language, queryText string, nameOf nameFunc) (*TreeSitterParser, error) {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language for %s parser: %w", name, err)
	}

	q, qerr := sitter.NewQuery(lang, queryText)
	if qerr != nil {
		return nil, fmt.Errorf("failed to create %s query: %w", name, qerr)
	}

	return &TreeSitterParser{
		name:       name,
		extensions: extensions,
		parser:     parser,
		query:      q,
		nameOf:     nameOf,
	}, nil
}

func (p *TreeSitterParser) Language() string {
	return p.name
}

func (p *TreeSitterParser) SupportedExtensions() []string {
	return p.extensions
}

func (p *TreeSitterParser) ParseFile(filePath string, content []byte) ([]types.Symbol, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tree := p.parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: tree-sitter returned nil", p.name)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	var symbols []types.Symbol
	seen := make(map[string]bool)
	captureNames := p.query.CaptureNames()

	matches := qc.Matches(p.query, tree.RootNode(), content)
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		for _, c := range m.Captures {
			node := c.Node
			name := strings.TrimSpace(p.nameOf(&node, content))
			if name == "" {
				continue
			}

			startLine, endLine := nodeLines(&node)
			key := fmt.Sprintf("%s:%d", name, startLine)
			if seen[key] {
				continue
			}
			seen[key] = true

			symbols = append(symbols, types.Symbol{
				Name:      name,
				Kind:      captureNames[c.Index],
				FilePath:  filePath,
				StartLine: startLine,
				EndLine:   endLine,
			})
		}
	}

	slices.SortStableFunc(symbols, func(a, b types.Symbol) int {
		return a.StartLine - b.StartLine
	})
	return symbols, nil
}

// nodeLines returns 1-based inclusive lines. Nodes that end at column zero
// (preprocessor lines include their newline) do not count the next line.
func nodeLines(node *sitter.Node) (int, int) {
	start := node.StartPosition()
	end := node.EndPosition()
	startLine := int(start.Row) + 1
	endLine := int(end.Row) + 1
	if end.Column == 0 && end.Row > start.Row {
		endLine--
	}
	return startLine, endLine
}

func fieldText(node *sitter.Node, field string, src []byte) string {
	if child := node.ChildByFieldName(field); child != nil {
		return child.Utf8Text(src)
	}
	return ""
}

// firstDescendant returns the first node of the given kind in a pre-order walk.
func firstDescendant(node *sitter.Node, kind string) *sitter.Node {
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			if found := firstDescendant(child, kind); found != nil {
				return found
			}
		}
	}
	return nil
}

type ParserRegistry struct {
	parsers map[string]LanguageParser
}

// NewParserRegistry registers the built-in tree-sitter parsers.
func NewParserRegistry() *ParserRegistry {
	registry := &ParserRegistry{
		parsers: make(map[string]LanguageParser),
	}

	constructors := []func() (*TreeSitterParser, error){
		NewGoParser,
		NewJavaParser,
		NewPythonParser,
		NewTypeScriptParser,
		NewTSXParser,
		NewCParser,
	}
	for _, newParser := range constructors {
		parser, err := newParser()
		if err != nil {
			panic(fmt.Errorf("failed to create parser: %w", err))
		}
		registry.RegisterParser(parser)
	}

	return registry
}

func (pr *ParserRegistry) RegisterParser(parser LanguageParser) {
	for _, ext := range parser.SupportedExtensions() {
		pr.parsers[ext] = parser
	}
}

func (pr *ParserRegistry) GetParser(filePath string) LanguageParser {
	ext := strings.ToLower(filepath.Ext(filePath))
	return pr.parsers[ext]
}

func (pr *ParserRegistry) ParseFile(filePath string, content []byte) ([]types.Symbol, error) {
	parser := pr.GetParser(filePath)
	if parser == nil {
		return []types.Symbol{}, nil
	}
	return parser.ParseFile(filePath, content)
}

// ChangedSymbols returns the declarations in content whose lines intersect
// the new side of any hunk, one entry per name. A pure deletion hunk touches
// the line it follows.
// Files without a registered parser yield no symbols.
func (pr *ParserRegistry) ChangedSymbols(filePath string, content []byte, hunks []types.Hunk) ([]types.Symbol, error) {
	if len(hunks) == 0 || pr.GetParser(filePath) == nil {
		return []types.Symbol{}, nil
	}

	symbols, err := pr.ParseFile(filePath, content)
	if err != nil {
		return nil, err
	}

	changed := []types.Symbol{}
	seen := make(map[string]bool)
	for _, sym := range symbols {
		if seen[sym.Name] {
			continue
		}
		for _, h := range hunks {
			start, end := h.NewStart, h.NewStart+h.NewCount-1
			if h.NewCount == 0 {
				end = start
			}
			if start > 0 && sym.Overlaps(start, end) {
				changed = append(changed, sym)
				seen[sym.Name] = true
				break
			}
		}
	}
	return changed, nil
}
