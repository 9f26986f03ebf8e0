// Package bundler models the JavaScript bundler and compiler configuration the
// site patches at build time.
//
// The configuration is an explicit value. A patch is an ordered list of Steps
// applied by Apply to a private copy, so callers never observe a half-applied
// configuration.
package bundler
