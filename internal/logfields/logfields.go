package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeySlug       = "slug"
	KeyNodeID     = "node_id"
	KeyNodeType   = "node_type"
	KeySource     = "source"
	KeyFrom       = "from"
	KeyTo         = "to"
	KeyModule     = "module"
	KeyBundler    = "bundler_stage"
	KeyCount      = "count"
	KeyURL        = "url"
	KeySubject    = "subject"
	KeyJob        = "job"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func NodeID(id string) slog.Attr      { return slog.String(KeyNodeID, id) }
func NodeType(t string) slog.Attr     { return slog.String(KeyNodeType, t) }
func Source(name string) slog.Attr    { return slog.String(KeySource, name) }
func Module(m string) slog.Attr       { return slog.String(KeyModule, m) }
func BundlerStage(s string) slog.Attr { return slog.String(KeyBundler, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Job(name string) slog.Attr       { return slog.String(KeyJob, name) }

// Redirect groups the two ends of a redirect rule.
func Redirect(from, to string) slog.Attr {
	return slog.Group("redirect", slog.String(KeyFrom, from), slog.String(KeyTo, to))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
