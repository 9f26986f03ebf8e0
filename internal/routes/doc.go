// Package routes derives page routing fields from content nodes and requests
// pages for the docs tree.
//
// Derivation is pure: the same relative path, extension and frontmatter always
// produce the same fields. Fields are attached through the host so the host
// stays the owner of every node.
package routes
