package ports

import "context"

// GitService is the version-control collaborator of the commit pipeline and
// the interactive commands.
type GitService interface {
	IsRepository(ctx context.Context) bool
	HasChanges(ctx context.Context) (bool, error)
	GetChangedFiles(ctx context.Context) ([]string, error)
	// GetDiff returns staged plus unstaged changes, or only staged ones.
	GetDiff(ctx context.Context, stagedOnly bool) (string, error)
	GetRecentCommitMessages(ctx context.Context, count int) ([]string, error)
	StageAll(ctx context.Context) error
	CreateCommit(ctx context.Context, message string) error
}

// PushService covers the push step that follows a commit.
type PushService interface {
	GetCurrentBranch(ctx context.Context) (string, error)
	HasRemote(ctx context.Context) bool
	GetDefaultRemote(ctx context.Context) (string, error)
	GetRemoteURL(ctx context.Context, remote string) (string, error)
	IsHTTPSRemote(ctx context.Context, remote string) (bool, error)
	HasUpstream(ctx context.Context) bool
	Push(ctx context.Context, remote, branch string, setUpstream bool) error
	PushWithToken(ctx context.Context, token, remote, branch string, setUpstream bool) error
}
