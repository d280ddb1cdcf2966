// Package provenance identifies the source revision being released.
//
// The information is only reported (logged and attached to the release report);
// releaser never creates tags or otherwise versions a release.
package provenance

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when dir is not inside a git working tree.
var ErrNotRepository = errors.New("provenance: not a git repository")

// Info describes the HEAD of the working tree.
type Info struct {
	Commit string
	// Branch is empty for a detached HEAD.
	Branch string
	// Tags lists the tags pointing at Commit, sorted.
	Tags []string
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.Commit) > 12 {
		return i.Commit[:12]
	}
	return i.Commit
}

// Describe inspects the repository containing dir.
func Describe(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	info := &Info{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	tags, err := tagsAt(repo, head.Hash())
	if err != nil {
		return nil, err
	}
	info.Tags = tags
	return info, nil
}

func tagsAt(repo *git.Repository, commit plumbing.Hash) ([]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		// Annotated tags point at a tag object; follow it to the commit.
		if tag, tagErr := repo.TagObject(ref.Hash()); tagErr == nil {
			target = tag.Target
		}
		if target == commit {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
