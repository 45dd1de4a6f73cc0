package object

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeLine is one parsed line of a long tree listing.
type TreeLine struct {
	Mode Mode
	Type Type
	Hash Hash
	Size int64 // -1 when the listing reports "-" (trees, submodules)
	Name string
}

// ParseTreeLine parses "<mode> <type> <hash> <size>\t<name>" as printed by
// `ls-tree --long`. The size column is space-padded; the name follows the
// tab and may itself contain spaces.
func ParseTreeLine(line string) (TreeLine, error) {
	head, name, ok := strings.Cut(line, "\t")
	if !ok {
		return TreeLine{}, fmt.Errorf("malformed tree listing line %q: no tab", line)
	}
	fields := strings.Fields(head)
	if len(fields) != 4 {
		return TreeLine{}, fmt.Errorf("malformed tree listing line %q: want 4 fields, got %d", line, len(fields))
	}

	mode, err := ParseMode(fields[0])
	if err != nil {
		return TreeLine{}, fmt.Errorf("tree listing line %q: %w", line, err)
	}
	typ, err := ParseType(fields[1])
	if err != nil {
		return TreeLine{}, fmt.Errorf("tree listing line %q: %w", line, err)
	}
	hash, err := ParseHash(fields[2])
	if err != nil {
		return TreeLine{}, fmt.Errorf("tree listing line %q: %w", line, err)
	}

	size := int64(-1)
	if fields[3] != "-" {
		size, err = strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return TreeLine{}, fmt.Errorf("tree listing line %q: bad size: %w", line, err)
		}
	}

	return TreeLine{Mode: mode, Type: typ, Hash: hash, Size: size, Name: name}, nil
}
