// Package workspace resolves content sources to directories on disk.
//
// Local sources resolve against the site root. Remote sources are checked out
// into a workspace directory that is either ephemeral (a temp directory
// removed on Cleanup) or persistent (content.workspace, kept between builds
// so later syncs only pull).
package workspace
