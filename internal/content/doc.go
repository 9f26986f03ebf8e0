// Package content holds the node model that the host ingests from content
// sources and hands to lifecycle hooks.
//
// A Node is owned by the host. Hooks read it and attach derived fields through
// the host API; they never mutate Frontmatter or Body.
package content
