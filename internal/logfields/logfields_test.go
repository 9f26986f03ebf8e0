package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "create_pages", Stage("create_pages")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "file.md", File("file.md")},
		{"Slug", KeySlug, "/docs/intro", Slug("/docs/intro")},
		{"NodeID", KeyNodeID, "n1", NodeID("n1")},
		{"NodeType", KeyNodeType, "Mdx", NodeType("Mdx")},
		{"Source", KeySource, "docs", Source("docs")},
		{"Module", KeyModule, "core-js", Module("core-js")},
		{"BundlerStage", KeyBundler, "build-html", BundlerStage("build-html")},
		{"URL", KeyURL, "nats://localhost:4222", URL("nats://localhost:4222")},
		{"Subject", KeySubject, "builds", Subject("builds")},
		{"Job", KeyJob, "rebuild", Job("rebuild")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("Count attr mismatch: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("DurationMS attr mismatch: %v", a)
	}
}

func TestRedirectGroup(t *testing.T) {
	a := Redirect("/blog", "https://medium.com/qri-io")
	if a.Key != "redirect" || a.Value.Kind() != slog.KindGroup {
		t.Fatalf("unexpected redirect attr: %v", a)
	}
	group := a.Value.Group()
	if len(group) != 2 || group[0].Key != KeyFrom || group[1].Value.String() != "https://medium.com/qri-io" {
		t.Fatalf("unexpected redirect group: %v", group)
	}
}

func TestErrorHelper(t *testing.T) {
	if v := Error(nil).Value.String(); v != "" {
		t.Fatalf("expected empty error value, got %q", v)
	}
	if v := Error(errors.New("boom")).Value.String(); v != "boom" {
		t.Fatalf("expected boom, got %q", v)
	}
}
