// internal/adapters/publish/git.go

// Package publish implements the green publish gate on top of the git
// CLI. Trunk only moves after the verifier accepts: the healer calls
// Checkpoint and Push exactly once, from the Accepted state.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/platform/logx"
)

// GitPublisher implements ports.Publisher against a working tree.
type GitPublisher struct {
	logger  logx.Logger
	repoDir string
	branch  string
	remote  string
	noPush  bool
}

// Options configures the publisher.
type Options struct {
	RepoDir string
	Branch  string
	Remote  string
	NoPush  bool
}

// NewGitPublisher creates a publisher for the given working tree.
func NewGitPublisher(logger logx.Logger, opts Options) *GitPublisher {
	if opts.RepoDir == "" {
		opts.RepoDir = "."
	}
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	return &GitPublisher{
		logger:  logger.With("component", "publish-gate"),
		repoDir: opts.RepoDir,
		branch:  opts.Branch,
		remote:  opts.Remote,
		noPush:  opts.NoPush,
	}
}

// Checkpoint stages the tree and commits on the trunk branch with the
// given label. A checkpoint with nothing changed is not an error.
func (g *GitPublisher) Checkpoint(ctx context.Context, label string) error {
	if _, err := g.git(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}

	_, err := g.git(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		// Exit 0: nothing staged, the previous checkpoint already
		// covers this state.
		g.logger.Info("no-op checkpoint, nothing changed", "label", label)
		return nil
	}
	if !isExitStatus(err, 1) {
		return fmt.Errorf("inspect staged changes: %w", err)
	}

	if _, err := g.git(ctx, "commit", "-m", label); err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}

	g.logger.Info("checkpoint created", "label", label, "branch", g.branch)
	return nil
}

// Push publishes the trunk branch to the configured remote, if any.
// A push failure is the one publish condition surfaced loudly: it breaks
// the "trunk only moves on green" guarantee.
func (g *GitPublisher) Push(ctx context.Context) error {
	if g.noPush || g.remote == "" {
		g.logger.Info("push skipped", "remote", g.remote, "no_push", g.noPush)
		return nil
	}
	if !g.hasRemote(ctx) {
		g.logger.Info("no such remote configured, push skipped", "remote", g.remote)
		return nil
	}

	if out, err := g.git(ctx, "push", g.remote, g.branch); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPushFailed, firstLine(out), err)
	}

	g.logger.Info("trunk pushed", "remote", g.remote, "branch", g.branch)
	return nil
}

// git runs one git command inside the repo dir.
func (g *GitPublisher) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := strings.TrimSpace(buf.String())
	if err != nil {
		g.logger.Debug("git command failed",
			"args", strings.Join(args, " "),
			"output", firstLine(out),
		)
	}
	return out, err
}

// hasRemote reports whether the configured remote exists.
func (g *GitPublisher) hasRemote(ctx context.Context) bool {
	out, err := g.git(ctx, "remote")
	if err != nil {
		return false
	}
	for _, name := range strings.Fields(out) {
		if name == g.remote {
			return true
		}
	}
	return false
}

func isExitStatus(err error, code int) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == code
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
