package object

import "strings"

// WorktreeRecord is one block of `worktree list --porcelain` output.
type WorktreeRecord struct {
	Path     string
	Head     Hash
	Branch   string // full ref name, empty when detached
	Detached bool
	Bare     bool
	Locked   string // reason, "-" when locked without reason, empty otherwise
	Prunable string
}

// ParseWorktreeList parses porcelain worktree listing output. Blocks are
// separated by blank lines; a trailing blank line is not required.
func ParseWorktreeList(lines []string) []WorktreeRecord {
	var records []WorktreeRecord
	var cur WorktreeRecord
	open := false

	flush := func() {
		if open && cur.Path != "" {
			records = append(records, cur)
		}
		cur = WorktreeRecord{}
		open = false
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		field, rest, _ := strings.Cut(line, " ")
		switch field {
		case "worktree":
			flush()
			cur.Path = rest
			open = true
		case "HEAD":
			cur.Head = Hash(rest)
		case "branch":
			cur.Branch = strings.TrimSpace(rest)
		case "detached":
			cur.Detached = true
			cur.Branch = ""
		case "bare":
			cur.Bare = true
		case "locked":
			if rest == "" {
				cur.Locked = "-"
			} else {
				cur.Locked = unquoteReason(rest)
			}
		case "prunable":
			if rest == "" {
				cur.Prunable = "-"
			} else {
				cur.Prunable = unquoteReason(rest)
			}
		}
	}
	flush()
	return records
}

// unquoteReason undoes the porcelain quoting of locked/prunable reasons.
func unquoteReason(s string) string {
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
