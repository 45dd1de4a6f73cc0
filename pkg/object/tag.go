package object

import (
	"fmt"
	"strings"
)

// TagInfo is the fully parsed body of an annotated tag object. Like
// CommitInfo it is all-or-nothing: ParseTag never returns a partial value.
type TagInfo struct {
	Object     Hash
	TargetType Type
	Name       string
	Tagger     Signature
	Message    string
	Signature  string // trailing armored block, empty for unsigned tags
}

// ParseTag parses the header+body text of a tag object. Headers run to the
// first blank line and must be object, type, tag or tagger. The body up to
// a signature opener is the message; the opener and everything after it
// form the signature.
func ParseTag(lines []string) (*TagInfo, error) {
	var info TagInfo
	var sawObject, sawType, sawName bool

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		field, rest, _ := strings.Cut(line, " ")
		switch field {
		case "object":
			h, err := ParseHash(rest)
			if err != nil {
				return nil, fmt.Errorf("tag object header: %w", err)
			}
			info.Object = h
			sawObject = true
		case "type":
			t, err := ParseType(rest)
			if err != nil {
				return nil, fmt.Errorf("tag type header: %w", err)
			}
			info.TargetType = t
			sawType = true
		case "tag":
			info.Name = rest
			sawName = true
		case "tagger":
			sig, err := ParseSignature(rest)
			if err != nil {
				return nil, fmt.Errorf("tag tagger header: %w", err)
			}
			info.Tagger = sig
		default:
			return nil, fmt.Errorf("unexpected tag header line %q", line)
		}
	}

	if !sawObject || !sawType || !sawName {
		return nil, fmt.Errorf("tag object lacks object, type or tag header")
	}

	var msg, sig []string
	inSig := false
	for ; i < len(lines); i++ {
		line := lines[i]
		if !inSig && (line == pgpBegin || line == sshBegin) {
			inSig = true
		}
		if inSig {
			sig = append(sig, line)
		} else {
			msg = append(msg, line)
		}
	}
	info.Message = strings.Join(msg, "\n")
	info.Signature = strings.Join(sig, "\n")
	return &info, nil
}
