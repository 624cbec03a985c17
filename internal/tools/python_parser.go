package tools

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const pythonDeclarationQuery = `
(function_definition) @function
(class_definition) @class
`

func NewPythonParser() (*TreeSitterParser, error) {
	lang := sitter.NewLanguage(tree_sitter_python.Language())
	return newTreeSitterParser("Python", []string{".py"}, lang, pythonDeclarationQuery, pythonSymbolName)
}

func pythonSymbolName(node *sitter.Node, src []byte) string {
	return fieldText(node, "name", src)
}
