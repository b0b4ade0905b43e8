package git

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/thomas-vilte/commitformat/internal/errors"
)

type GitService struct {
	// dir is the working directory of every git call; empty means the
	// process working directory.
	dir string
}

func NewGitService() *GitService {
	return &GitService{}
}

// NewGitServiceInDir returns a service bound to the repository at dir.
func NewGitServiceInDir(dir string) *GitService {
	return &GitService{dir: dir}
}

func (s *GitService) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	return cmd
}

// run executes git and returns its trimmed stdout. Failures carry stderr.
func (s *GitService) run(ctx context.Context, args ...string) (string, error) {
	cmd := s.command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// IsRepository checks if the working directory is inside a git repository
func (s *GitService) IsRepository(ctx context.Context) bool {
	_, err := s.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// GetRepoRoot gets the absolute path to the root of the git repository
func (s *GitService) GetRepoRoot(ctx context.Context) (string, error) {
	root, err := s.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.ErrGetRepoRoot.WithError(err)
	}
	return root, nil
}

// HasChanges reports whether the working tree has staged, unstaged or untracked changes.
func (s *GitService) HasChanges(ctx context.Context) (bool, error) {
	files, err := s.GetChangedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// HasStagedChanges checks if there are changes in the staging area
func (s *GitService) HasStagedChanges(ctx context.Context) bool {
	cmd := s.command(ctx, "diff", "--cached", "--quiet")
	err := cmd.Run()

	// exit status 1 means there are staged changes
	return err != nil && cmd.ProcessState != nil && cmd.ProcessState.ExitCode() == 1
}

func (s *GitService) GetChangedFiles(ctx context.Context) ([]string, error) {
	cmd := s.command(ctx, "status", "--porcelain", "--untracked-files=all")
	output, err := cmd.Output()
	if err != nil {
		return nil, errors.ErrGetChangedFiles.WithError(err)
	}

	changes := make([]string, 0)
	for _, line := range strings.Split(string(output), "\n") {
		if len(line) <= 3 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		// renames are reported as "old -> new"
		if _, newPath, ok := strings.Cut(path, " -> "); ok {
			path = newPath
		}
		path = strings.Trim(path, `"`)
		if path != "" {
			changes = append(changes, path)
		}
	}

	return changes, nil
}

// GetDiff returns the staged diff followed by the unstaged one and a diff of
// every untracked file. With stagedOnly, only the staged diff is returned.
func (s *GitService) GetDiff(ctx context.Context, stagedOnly bool) (string, error) {
	staged, err := s.command(ctx, "diff", "--cached", "--no-color", "--no-ext-diff").Output()
	if err != nil {
		return "", errors.ErrGetDiff.WithError(err)
	}
	if stagedOnly {
		return string(staged), nil
	}

	unstaged, err := s.command(ctx, "diff", "--no-color", "--no-ext-diff").Output()
	if err != nil {
		return "", errors.ErrGetDiff.WithError(err)
	}

	var sb strings.Builder
	sb.Write(staged)
	sb.Write(unstaged)

	untracked, err := s.run(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return "", errors.ErrGetDiff.WithError(err)
	}
	for _, file := range strings.Split(untracked, "\n") {
		if file == "" {
			continue
		}
		// --no-index exits 1 when the files differ, which they always do here
		out, err := s.command(ctx, "diff", "--no-color", "--no-index", "--", "/dev/null", file).Output()
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); !ok || exitErr.ExitCode() != 1 {
				return "", errors.ErrGetDiff.WithError(err).WithContext("file", file)
			}
		}
		sb.Write(out)
	}

	return sb.String(), nil
}

// StageAll stages every change in the repository, untracked files included.
func (s *GitService) StageAll(ctx context.Context) error {
	if _, err := s.run(ctx, "add", "--all"); err != nil {
		return errors.ErrStageChanges.WithError(err)
	}
	return nil
}

func (s *GitService) CreateCommit(ctx context.Context, message string) error {
	if !s.HasStagedChanges(ctx) {
		return errors.ErrNoChanges
	}

	if _, err := s.run(ctx, "commit", "-m", message); err != nil {
		return errors.ErrCreateCommit.WithError(err)
	}
	return nil
}

// GetRecentCommitMessages returns the full messages of the last count
// commits, newest first. A repository without commits yields none.
func (s *GitService) GetRecentCommitMessages(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	if _, err := s.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		return []string{}, nil
	}

	output, err := s.command(ctx, "log", fmt.Sprintf("-%d", count), "--pretty=format:%B%x00").Output()
	if err != nil {
		return nil, errors.ErrGetRecentCommits.WithError(err)
	}

	messages := make([]string, 0, count)
	for _, msg := range strings.Split(string(output), "\x00") {
		if msg = strings.TrimSpace(msg); msg != "" {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (s *GitService) GetCurrentBranch(ctx context.Context) (string, error) {
	branchName, err := s.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", errors.ErrGetBranch.WithError(err)
	}
	if branchName == "" {
		return "", errors.ErrGetBranch.WithContext("reason", "detached HEAD")
	}
	return branchName, nil
}

func (s *GitService) remotes(ctx context.Context) ([]string, error) {
	output, err := s.run(ctx, "remote")
	if err != nil {
		return nil, err
	}
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}

func (s *GitService) HasRemote(ctx context.Context) bool {
	remotes, err := s.remotes(ctx)
	return err == nil && len(remotes) > 0
}

// GetDefaultRemote returns "origin" when it exists, otherwise the first remote.
func (s *GitService) GetDefaultRemote(ctx context.Context) (string, error) {
	remotes, err := s.remotes(ctx)
	if err != nil || len(remotes) == 0 {
		return "", errors.ErrNoRemote
	}
	for _, r := range remotes {
		if r == "origin" {
			return r, nil
		}
	}
	return remotes[0], nil
}

func (s *GitService) GetRemoteURL(ctx context.Context, remote string) (string, error) {
	remoteURL, err := s.run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", errors.ErrGetRemoteURL.WithError(err).WithContext("remote", remote)
	}
	return remoteURL, nil
}

func (s *GitService) IsHTTPSRemote(ctx context.Context, remote string) (bool, error) {
	remoteURL, err := s.GetRemoteURL(ctx, remote)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(remoteURL, "https://"), nil
}

// HasUpstream reports whether the current branch tracks a remote branch.
func (s *GitService) HasUpstream(ctx context.Context) bool {
	_, err := s.run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	return err == nil
}

// Push pushes branch to remote, optionally setting it as upstream.
func (s *GitService) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)

	if _, err := s.run(ctx, args...); err != nil {
		return errors.ErrPush.WithError(err).WithContext("remote", remote)
	}
	return nil
}

// PushWithToken pushes through a one-off https URL carrying token. The token
// never reaches the git config; the upstream, when requested, is recorded
// against the named remote.
func (s *GitService) PushWithToken(ctx context.Context, token, remote, branch string, setUpstream bool) error {
	remoteURL, err := s.GetRemoteURL(ctx, remote)
	if err != nil {
		return err
	}
	authURL, err := tokenURL(remoteURL, token)
	if err != nil {
		return errors.ErrPush.WithError(err).WithContext("remote", remote)
	}

	if _, err := s.run(ctx, "push", authURL, "HEAD:refs/heads/"+branch); err != nil {
		return errors.ErrPush.WithError(redactError(err, token)).WithContext("remote", remote)
	}

	if setUpstream {
		if _, err := s.run(ctx, "config", "branch."+branch+".remote", remote); err != nil {
			return errors.ErrPush.WithError(err).WithContext("remote", remote)
		}
		if _, err := s.run(ctx, "config", "branch."+branch+".merge", "refs/heads/"+branch); err != nil {
			return errors.ErrPush.WithError(err).WithContext("remote", remote)
		}
	}
	return nil
}

// tokenURL injects token as basic-auth credentials into an https remote URL.
func tokenURL(remoteURL, token string) (string, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("remote %q is not an https URL", remoteURL)
	}
	u.User = url.UserPassword("x-access-token", token)
	return u.String(), nil
}

type redactedError struct{ msg string }

func (e redactedError) Error() string { return e.msg }

func redactError(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), secret, "***")}
}
