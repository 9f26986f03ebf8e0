package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Client clones and updates remote content sources.
type Client struct {
	workspaceDir string
	recorder     metrics.Recorder
}

// NewClient creates a client that checks sources out under workspaceDir.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the recorder for clone durations.
func (c *Client) WithRecorder(r metrics.Recorder) *Client {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Sync makes the source's checkout current and returns the content root:
// the checkout joined with the source's path. An existing checkout is pulled,
// anything else is cloned fresh.
func (c *Client) Sync(ctx context.Context, src config.ContentSource) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, src.Name)

	start := time.Now()
	var err error
	if _, statErr := os.Stat(filepath.Join(repoPath, ".git")); statErr == nil {
		err = c.pull(ctx, repoPath, src)
	} else {
		err = c.clone(ctx, repoPath, src)
	}
	c.recorder.ObserveCloneDuration(src.Name, time.Since(start), err == nil)
	if err != nil {
		return "", err
	}
	return filepath.Join(repoPath, filepath.FromSlash(src.Path)), nil
}

func (c *Client) clone(ctx context.Context, repoPath string, src config.ContentSource) error {
	slog.Debug("Cloning content source", logfields.Source(src.Name), logfields.URL(src.URL), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clear checkout directory").
			WithContext("path", repoPath).Build()
	}

	opts := &git.CloneOptions{URL: src.URL, Depth: 1}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(src.Auth)
	if err != nil {
		return err
	}
	opts.Auth = auth

	repo, err := git.PlainCloneContext(ctx, repoPath, false, opts)
	if err != nil {
		return errors.WrapError(err, errors.CategoryGit, "failed to clone content source").
			WithContext("source", src.Name).
			WithContext("url", src.URL).
			Build()
	}
	logHead(repo, src, "Content source cloned")
	return nil
}

func (c *Client) pull(ctx context.Context, repoPath string, src config.ContentSource) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return errors.WrapError(err, errors.CategoryGit, "failed to open checkout").
			WithContext("path", repoPath).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.WrapError(err, errors.CategoryGit, "failed to open worktree").
			WithContext("path", repoPath).Build()
	}

	opts := &git.PullOptions{RemoteName: "origin", Depth: 1}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(src.Auth)
	if err != nil {
		return err
	}
	opts.Auth = auth

	err = wt.PullContext(ctx, opts)
	if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("Content source already up to date", logfields.Source(src.Name))
		return nil
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryGit, "failed to pull content source").
			WithContext("source", src.Name).
			WithContext("url", src.URL).
			Build()
	}
	logHead(repo, src, "Content source updated")
	return nil
}

func logHead(repo *git.Repository, src config.ContentSource, msg string) {
	attrs := []any{logfields.Source(src.Name), logfields.URL(src.URL)}
	if ref, err := repo.Head(); err == nil {
		attrs = append(attrs, slog.String("commit", ref.Hash().String()[:8]))
	}
	slog.Info(msg, attrs...)
}
