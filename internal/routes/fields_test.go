package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	sbtesting "git.home.luguber.info/inful/sitebuilder/internal/testing"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, []Category{CategoryJob}, Classify("/site/content/jobs/job-engineer.mdx"))
	assert.Equal(t, []Category{CategoryDataStory}, Classify("/site/content/data-stories/nyc.mdx"))
	assert.Equal(t, []Category{CategoryJob, CategoryDataStory}, Classify("/data-stories/jobs/job-x.md"))
	assert.Empty(t, Classify("/site/content/jobs/index.mdx"))
	assert.Equal(t, "job", CategoryJob.String())
	assert.Equal(t, "unknown", Category(0).String())
}

func TestDeriveCategoryFields(t *testing.T) {
	t.Run("job copies verbatim", func(t *testing.T) {
		got := DeriveCategoryFields("/c/jobs/job-engineer.mdx", map[string]any{
			"jobTitle":    "Engineer",
			"jobLocation": "Remote",
			"subtitle":    "ignored",
		})
		assert.Equal(t, map[string]any{"jobTitle": "Engineer", "jobLocation": "Remote"}, got)
	})

	t.Run("missing keys are nil", func(t *testing.T) {
		got := DeriveCategoryFields("/c/data-stories/a.md", map[string]any{"by": "Qri"})
		assert.Equal(t, map[string]any{"subtitle": nil, "by": "Qri", "date": nil, "heroImage": nil}, got)
	})

	t.Run("no match", func(t *testing.T) {
		got := DeriveCategoryFields("/c/docs/a.md", map[string]any{"jobTitle": "x"})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestDerive(t *testing.T) {
	node := sbtesting.MdxNode("docs", "/site/content", "jobs/job-engineer.mdx", map[string]any{
		"jobTitle": "Engineer",
		"weight":   3,
	})

	d := Derive(node)
	assert.Equal(t, "/jobs/job-engineer", d.Slug)
	assert.Equal(t, node.ID, d.ID)
	assert.Equal(t, "Job Engineer", d.Title)
	require.NotNil(t, d.Weight)
	assert.InDelta(t, 3.0, *d.Weight, 0)
	assert.Equal(t, map[string]any{"jobTitle": "Engineer", "jobLocation": nil}, d.Extras)
}

func TestDerive_WeightTypes(t *testing.T) {
	for _, v := range []any{2, int64(2), uint64(2), 2.0} {
		node := sbtesting.MdxNode("docs", "/r", "a.md", map[string]any{"weight": v})
		w := Derive(node).Weight
		require.NotNil(t, w)
		assert.InDelta(t, 2.0, *w, 0)
	}
	node := sbtesting.MdxNode("docs", "/r", "a.md", map[string]any{"weight": "2"})
	assert.Nil(t, Derive(node).Weight)
}

func TestAttachDerived(t *testing.T) {
	node := sbtesting.MdxNode("docs", "/site/content", "jobs/job-engineer.mdx", map[string]any{
		"metaTitle":   "We're hiring",
		"jobTitle":    "Engineer",
		"jobLocation": "Remote",
	})
	rec := sbtesting.NewRecorder(node)

	_, ok := AttachDerived(rec, node)
	require.True(t, ok)

	assert.Equal(t, map[string]any{
		"slug":        "/jobs/job-engineer",
		"id":          node.ID,
		"title":       "We're hiring",
		"weight":      nil,
		"jobTitle":    "Engineer",
		"jobLocation": "Remote",
	}, rec.Attached[node.ID])
	assert.Equal(t, "/jobs/job-engineer", node.StringField(FieldSlug))
}

func TestAttachDerived_OutsideJobsNeverGetsJobFields(t *testing.T) {
	node := sbtesting.MdxNode("docs", "/site/content", "docs/guide.md", map[string]any{"jobTitle": "x"})
	rec := sbtesting.NewRecorder(node)

	AttachDerived(rec, node)

	_, has := rec.Attached[node.ID]["jobTitle"]
	assert.False(t, has)
}

func TestAttachDerived_SkipsNonMdx(t *testing.T) {
	node := &content.Node{ID: "n1", Type: "File"}
	rec := sbtesting.NewRecorder(node)

	_, ok := AttachDerived(rec, node)
	assert.False(t, ok)
	assert.Empty(t, rec.Attached)

	_, ok = AttachDerived(rec, nil)
	assert.False(t, ok)
}
