package tools

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

const javaDeclarationQuery = `
(class_declaration) @class
(interface_declaration) @interface
(enum_declaration) @enum
(method_declaration) @method
(constructor_declaration) @constructor
(field_declaration) @field
`

func NewJavaParser() (*TreeSitterParser, error) {
	lang := sitter.NewLanguage(tree_sitter_java.Language())
	return newTreeSitterParser("Java", []string{".java"}, lang, javaDeclarationQuery, javaSymbolName)
}

func javaSymbolName(node *sitter.Node, src []byte) string {
	if node.Kind() == "field_declaration" {
		if declarator := node.ChildByFieldName("declarator"); declarator != nil {
			return fieldText(declarator, "name", src)
		}
		return ""
	}
	return fieldText(node, "name", src)
}
