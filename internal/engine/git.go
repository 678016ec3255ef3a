package engine

import (
	"os/exec"
	"strings"

	"github.com/lore-dev/lore/internal/loretypes"
)

// shellGitInspector implements transfer.GitInspector by shelling out to
// the git binary, following the teacher's internal/git convention of
// os/exec plumbing commands with strings.TrimSpace over the output
// (internal/git/gitdir.go's GetGitDir).
type shellGitInspector struct{}

func (shellGitInspector) State() (loretypes.GitState, error) {
	branch, err := runGit("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		// Not a git repository, or git is unavailable: snapshot simply
		// carries no git state, which spec.md §4.6 treats as valid.
		return loretypes.GitState{}, nil
	}

	commits := splitLines(mustGit("log", "--oneline", "-n", "10"))
	uncommitted := splitLines(mustGit("status", "--porcelain"))
	stashOutput := splitLines(mustGit("stash", "list"))
	stashCount := 0
	for _, l := range stashOutput {
		if l != "" {
			stashCount++
		}
	}

	return loretypes.GitState{
		Branch:      branch,
		Commits:     commits,
		Uncommitted: uncommitted,
		StashCount:  stashCount,
	}, nil
}

func runGit(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// mustGit best-effort runs git, returning "" on any error: these calls
// supplement the branch (already confirmed to exist) with context that
// is allowed to be empty.
func mustGit(args ...string) string {
	out, err := runGit(args...)
	if err != nil {
		return ""
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
