// Package watch rebuilds the site when content or components change, and on
// an optional fixed interval. At most one build runs at a time; requests that
// arrive during a build collapse into a single follow-up build.
package watch
