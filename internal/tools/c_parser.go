package tools

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// Struct and enum specifiers without a body are references, not declarations.
const cDeclarationQuery = `
(function_definition) @function
(struct_specifier body: (_)) @struct
(enum_specifier body: (_)) @enum
(type_definition) @typedef
(preproc_def) @macro
(preproc_function_def) @macro
`

func NewCParser() (*TreeSitterParser, error) {
	lang := sitter.NewLanguage(tree_sitter_c.Language())
	return newTreeSitterParser("C", []string{".c", ".h"}, lang, cDeclarationQuery, cSymbolName)
}

func cSymbolName(node *sitter.Node, src []byte) string {
	switch node.Kind() {
	case "function_definition", "type_definition":
		return declaratorName(node.ChildByFieldName("declarator"), src)
	default:
		return fieldText(node, "name", src)
	}
}

// declaratorName unwraps pointer, array, and function declarators down to
// the declared identifier.
func declaratorName(node *sitter.Node, src []byte) string {
	for node != nil {
		switch node.Kind() {
		case "identifier", "type_identifier", "field_identifier":
			return node.Utf8Text(src)
		}
		node = node.ChildByFieldName("declarator")
	}
	return ""
}
