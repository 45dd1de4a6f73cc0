package repo

import (
	"strings"
	"testing"
)

// Shared object fixture: a two-parent commit over a tree holding a README
// blob and a src/ subtree.
var (
	fxCommit  = strings.Repeat("1", 40)
	fxTree    = strings.Repeat("2", 40)
	fxBlob    = strings.Repeat("3", 40)
	fxSubtree = strings.Repeat("4", 40)
	fxUtil    = strings.Repeat("5", 40)
	fxParent1 = strings.Repeat("6", 40)
	fxParent2 = strings.Repeat("7", 40)
	fxTag     = strings.Repeat("8", 40)
	fxRoot    = strings.Repeat("9", 40)
)

func fxCommitBody() string {
	return strings.Join([]string{
		"tree " + fxTree,
		"parent " + fxParent1,
		"parent " + fxParent2,
		"author Jane Doe <jane@example.com> 1712345678 +0200",
		"committer Jane Doe <jane@example.com> 1712345680 +0000",
		"",
		"Add utilities",
	}, "\n")
}

func fxTreeListing() string {
	return "100644 blob " + fxBlob + "    1342\tREADME.md\n" +
		"040000 tree " + fxSubtree + "       -\tsrc"
}

func fxSubtreeListing() string {
	return "100644 blob " + fxUtil + "      27\tutil.go"
}

// newTestRepo builds a standalone repository over a scripted runner with
// the fixture objects wired up.
func newTestRepo(t *testing.T) (*Repository, *fakeRunner) {
	f := newFakeRunner(t)
	f.script("commit", "cat-file", "-t", fxCommit)
	f.script(fxCommitBody(), "cat-file", "commit", fxCommit)
	f.script(fxTreeListing(), "ls-tree", "--long", fxTree)
	f.script(fxSubtreeListing(), "ls-tree", "--long", fxSubtree)
	f.script("hello\nworld\n", "cat-file", "blob", fxBlob)
	f.script(fxRoot, "rev-list", "--max-parents=0", "--all")
	return NewRepository("/home/jane/proj/.git", f), f
}
