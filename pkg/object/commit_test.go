package object

import (
	"strings"
	"testing"
)

const (
	treeHex    = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	parent1Hex = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	parent2Hex = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func commitLines(extra ...string) []string {
	lines := []string{"tree " + treeHex}
	lines = append(lines, extra...)
	lines = append(lines,
		"author Jane Doe <jane@example.com> 1712345678 +0200",
		"committer CI Bot <ci@example.com> 1712345680 +0000",
		"",
		"Add the thing",
		"",
		"Body paragraph.",
	)
	return lines
}

func TestParseCommit(t *testing.T) {
	info, err := ParseCommit(commitLines("parent "+parent1Hex, "parent "+parent2Hex))
	if err != nil {
		t.Fatalf("ParseCommit: %v", err)
	}
	if info.Tree != Hash(treeHex) {
		t.Errorf("Tree: got %q, want %q", info.Tree, treeHex)
	}
	if len(info.Parents) != 2 || info.Parents[0] != Hash(parent1Hex) || info.Parents[1] != Hash(parent2Hex) {
		t.Errorf("Parents: got %v", info.Parents)
	}
	if info.Author.Name != "Jane Doe" {
		t.Errorf("Author: got %q", info.Author.Name)
	}
	if info.Committer.Email != "ci@example.com" {
		t.Errorf("Committer: got %q", info.Committer.Email)
	}
	want := "Add the thing\n\nBody paragraph."
	if info.Message != want {
		t.Errorf("Message: got %q, want %q", info.Message, want)
	}
	if info.GPGSig != "" {
		t.Errorf("GPGSig: got %q, want empty", info.GPGSig)
	}
}

func TestParseCommitRoot(t *testing.T) {
	info, err := ParseCommit(commitLines())
	if err != nil {
		t.Fatalf("ParseCommit: %v", err)
	}
	if len(info.Parents) != 0 {
		t.Errorf("Parents: got %v, want none", info.Parents)
	}
}

func TestParseCommitSSHSignature(t *testing.T) {
	lines := commitLines(
		"gpgsig -----BEGIN SSH SIGNATURE-----",
		" U1NIU0lHAAAAAQ==",
		" -----END SSH SIGNATURE-----",
	)
	info, err := ParseCommit(lines)
	if err != nil {
		t.Fatalf("ParseCommit: %v", err)
	}
	wantSig := strings.Join([]string{
		"-----BEGIN SSH SIGNATURE-----",
		"U1NIU0lHAAAAAQ==",
		"-----END SSH SIGNATURE-----",
	}, "\n")
	if info.GPGSig != wantSig {
		t.Errorf("GPGSig: got %q, want %q", info.GPGSig, wantSig)
	}
	if info.Message != "Add the thing\n\nBody paragraph." {
		t.Errorf("Message after signature block: got %q", info.Message)
	}
}

func TestParseCommitPGPSignature(t *testing.T) {
	lines := commitLines(
		"gpgsig -----BEGIN PGP SIGNATURE-----",
		" ",
		" iQEzBAABCAAdFiEE",
		" -----END PGP SIGNATURE-----",
	)
	info, err := ParseCommit(lines)
	if err != nil {
		t.Fatalf("ParseCommit: %v", err)
	}
	if !strings.HasPrefix(info.GPGSig, "-----BEGIN PGP SIGNATURE-----") {
		t.Errorf("GPGSig start: got %q", info.GPGSig)
	}
	if !strings.HasSuffix(info.GPGSig, "-----END PGP SIGNATURE-----") {
		t.Errorf("GPGSig end: got %q", info.GPGSig)
	}
}

func TestParseCommitMalformed(t *testing.T) {
	cases := map[string][]string{
		"missing tree": {
			"author Jane Doe <jane@example.com> 1712345678 +0200",
			"committer Jane Doe <jane@example.com> 1712345678 +0200",
			"",
			"msg",
		},
		"missing committer": {
			"tree " + treeHex,
			"author Jane Doe <jane@example.com> 1712345678 +0200",
			"",
			"msg",
		},
		"unknown header": {
			"tree " + treeHex,
			"flavor vanilla",
			"author Jane Doe <jane@example.com> 1712345678 +0200",
			"committer Jane Doe <jane@example.com> 1712345678 +0200",
			"",
			"msg",
		},
		"bad parent": {
			"tree " + treeHex,
			"parent nothex",
			"author Jane Doe <jane@example.com> 1712345678 +0200",
			"committer Jane Doe <jane@example.com> 1712345678 +0200",
			"",
			"msg",
		},
		"unterminated signature": {
			"tree " + treeHex,
			"author Jane Doe <jane@example.com> 1712345678 +0200",
			"committer Jane Doe <jane@example.com> 1712345678 +0200",
			"gpgsig -----BEGIN SSH SIGNATURE-----",
			" U1NIU0lH",
		},
	}
	for name, lines := range cases {
		if _, err := ParseCommit(lines); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}
