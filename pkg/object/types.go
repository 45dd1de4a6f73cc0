package object

import "fmt"

// Type identifies the kind of object stored in the database. The set is
// closed: git has exactly four object kinds.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

// ParseType validates a kind reported by the object database.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown object kind %q", s)
}

// Mode is an entry mode as it appears in a tree listing.
type Mode string

const (
	ModeDir        Mode = "040000"
	ModeFile       Mode = "100644"
	ModeExecutable Mode = "100755"
	ModeSymlink    Mode = "120000"
	ModeSubmodule  Mode = "160000"
)

// ParseMode validates a tree-entry mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDir, ModeFile, ModeExecutable, ModeSymlink, ModeSubmodule:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown entry mode %q", s)
}

// Prefix returns the one-character type marker used in listings:
// D directory, X executable, L symlink, S submodule, - regular file.
func (m Mode) Prefix() string {
	switch m {
	case ModeDir:
		return "D"
	case ModeExecutable:
		return "X"
	case ModeSymlink:
		return "L"
	case ModeSubmodule:
		return "S"
	}
	return "-"
}

// Type returns the object kind implied by the mode. Submodule entries are
// commits (gitlinks); everything except directories is a blob.
func (m Mode) Type() Type {
	switch m {
	case ModeDir:
		return TypeTree
	case ModeSubmodule:
		return TypeCommit
	}
	return TypeBlob
}
