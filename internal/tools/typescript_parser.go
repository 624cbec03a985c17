package tools

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const typeScriptDeclarationQuery = `
(function_declaration) @function
(class_declaration) @class
(interface_declaration) @interface
(type_alias_declaration) @type
(enum_declaration) @enum
(method_definition) @method
(program (lexical_declaration (variable_declarator) @variable))
(export_statement (lexical_declaration (variable_declarator) @variable))
`

func NewTypeScriptParser() (*TreeSitterParser, error) {
	lang := sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	return newTreeSitterParser("TypeScript", []string{".ts"}, lang, typeScriptDeclarationQuery, typeScriptSymbolName)
}

// NewTSXParser uses the TSX grammar, which shares node names with TypeScript.
func NewTSXParser() (*TreeSitterParser, error) {
	lang := sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	return newTreeSitterParser("TSX", []string{".tsx"}, lang, typeScriptDeclarationQuery, typeScriptSymbolName)
}

func typeScriptSymbolName(node *sitter.Node, src []byte) string {
	return fieldText(node, "name", src)
}
