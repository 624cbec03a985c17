package tools

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

const goDeclarationQuery = `
(source_file (function_declaration) @function)
(source_file (method_declaration) @method)
(source_file (type_declaration (type_spec) @type))
(source_file (const_declaration (const_spec) @const))
(source_file (var_declaration (var_spec) @var))
(source_file (var_declaration (var_spec_list (var_spec) @var)))
`

func NewGoParser() (*TreeSitterParser, error) {
	lang := sitter.NewLanguage(tree_sitter_go.Language())
	return newTreeSitterParser("Go", []string{".go"}, lang, goDeclarationQuery, goSymbolName)
}

// goSymbolName qualifies methods with their receiver type, e.g. "Server.Start".
func goSymbolName(node *sitter.Node, src []byte) string {
	name := fieldText(node, "name", src)
	if node.Kind() != "method_declaration" || name == "" {
		return name
	}

	receiver := node.ChildByFieldName("receiver")
	if receiver == nil {
		return name
	}
	if typeNode := firstDescendant(receiver, "type_identifier"); typeNode != nil {
		return typeNode.Utf8Text(src) + "." + name
	}
	return name
}
