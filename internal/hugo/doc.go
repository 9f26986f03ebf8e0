// Package hugo is the static-site host. It drives a site module through the
// host.Hooks lifecycle in ordered stages and writes the result as a Hugo
// project: content pages with front matter, static redirects, bundler
// manifests, hugo.yaml and a build report.
package hugo
