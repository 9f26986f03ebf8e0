// Package git fetches remote content sources into a workspace directory.
package git
