package object

import (
	"fmt"
	"strings"
)

// Signature block markers as they appear in commit and tag bodies. Both PGP
// and SSH blocks come through the same gpgsig header; git writes SSH blocks
// when gpg.format=ssh.
const (
	pgpBegin = "-----BEGIN PGP SIGNATURE-----"
	pgpEnd   = "-----END PGP SIGNATURE-----"
	sshBegin = "-----BEGIN SSH SIGNATURE-----"
	sshEnd   = "-----END SSH SIGNATURE-----"
)

// CommitInfo is the fully parsed body of a commit object. A CommitInfo is
// only ever produced complete: ParseCommit either returns every field or an
// error and nothing.
type CommitInfo struct {
	Tree      Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	Message   string
	GPGSig    string // raw armored block, empty for unsigned commits
}

// ParseCommit parses the header+body text of a commit object as printed by
// the object database. Header lines run until the first blank line and must
// be one of tree, parent, author, committer or a gpgsig block; anything
// else is a malformed object. The remainder is the message.
func ParseCommit(lines []string) (*CommitInfo, error) {
	var info CommitInfo
	var sawTree, sawAuthor, sawCommitter bool

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		field, rest, _ := strings.Cut(line, " ")
		switch field {
		case "tree":
			h, err := ParseHash(rest)
			if err != nil {
				return nil, fmt.Errorf("commit tree header: %w", err)
			}
			info.Tree = h
			sawTree = true
		case "parent":
			h, err := ParseHash(rest)
			if err != nil {
				return nil, fmt.Errorf("commit parent header: %w", err)
			}
			info.Parents = append(info.Parents, h)
		case "author":
			sig, err := ParseSignature(rest)
			if err != nil {
				return nil, fmt.Errorf("commit author header: %w", err)
			}
			info.Author = sig
			sawAuthor = true
		case "committer":
			sig, err := ParseSignature(rest)
			if err != nil {
				return nil, fmt.Errorf("commit committer header: %w", err)
			}
			info.Committer = sig
			sawCommitter = true
		case "gpgsig":
			block, next, err := parseSigBlock(lines, i, rest)
			if err != nil {
				return nil, err
			}
			info.GPGSig = block
			i = next
		default:
			return nil, fmt.Errorf("unexpected commit header line %q", line)
		}
	}

	if !sawTree {
		return nil, fmt.Errorf("commit object lacks a tree header")
	}
	if !sawAuthor || !sawCommitter {
		return nil, fmt.Errorf("commit object lacks author or committer header")
	}
	info.Message = strings.Join(lines[min(i, len(lines)):], "\n")
	return &info, nil
}

// parseSigBlock consumes a multi-line armored signature starting at
// lines[start], whose first line's value is first. Continuation lines carry
// one leading space in cat-file output. Returns the block and the index of
// its last line.
func parseSigBlock(lines []string, start int, first string) (string, int, error) {
	var end string
	switch first {
	case pgpBegin:
		end = pgpEnd
	case sshBegin:
		end = sshEnd
	default:
		return "", 0, fmt.Errorf("unexpected signature block opener %q", first)
	}
	block := []string{first}
	for i := start + 1; i < len(lines); i++ {
		line := strings.TrimPrefix(lines[i], " ")
		block = append(block, line)
		if line == end {
			return strings.Join(block, "\n"), i, nil
		}
	}
	return "", 0, fmt.Errorf("unterminated signature block in object header")
}
