package object

import "testing"

func TestParseTreeLine(t *testing.T) {
	line := "100644 blob 89e6c98d92887913cadf06b2adb97f26cde4849b    1342\tREADME.md"
	got, err := ParseTreeLine(line)
	if err != nil {
		t.Fatalf("ParseTreeLine: %v", err)
	}
	if got.Mode != ModeFile {
		t.Errorf("Mode: got %q, want %q", got.Mode, ModeFile)
	}
	if got.Type != TypeBlob {
		t.Errorf("Type: got %q, want blob", got.Type)
	}
	if got.Hash != "89e6c98d92887913cadf06b2adb97f26cde4849b" {
		t.Errorf("Hash: got %q", got.Hash)
	}
	if got.Size != 1342 {
		t.Errorf("Size: got %d, want 1342", got.Size)
	}
	if got.Name != "README.md" {
		t.Errorf("Name: got %q, want README.md", got.Name)
	}
}

func TestParseTreeLineDirectory(t *testing.T) {
	line := "040000 tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904       -\tsrc"
	got, err := ParseTreeLine(line)
	if err != nil {
		t.Fatalf("ParseTreeLine: %v", err)
	}
	if got.Mode != ModeDir || got.Type != TypeTree {
		t.Errorf("got mode %q type %q, want dir/tree", got.Mode, got.Type)
	}
	if got.Size != -1 {
		t.Errorf("Size: got %d, want -1", got.Size)
	}
}

func TestParseTreeLineNameWithSpaces(t *testing.T) {
	line := "100755 blob aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa      12\tmy file name.sh"
	got, err := ParseTreeLine(line)
	if err != nil {
		t.Fatalf("ParseTreeLine: %v", err)
	}
	if got.Name != "my file name.sh" {
		t.Errorf("Name: got %q, want %q", got.Name, "my file name.sh")
	}
	if got.Mode != ModeExecutable {
		t.Errorf("Mode: got %q, want executable", got.Mode)
	}
}

func TestParseTreeLineSubmodule(t *testing.T) {
	line := "160000 commit cccccccccccccccccccccccccccccccccccccccc       -\tvendor/lib"
	got, err := ParseTreeLine(line)
	if err != nil {
		t.Fatalf("ParseTreeLine: %v", err)
	}
	if got.Mode != ModeSubmodule || got.Type != TypeCommit {
		t.Errorf("got mode %q type %q, want submodule/commit", got.Mode, got.Type)
	}
}

func TestParseTreeLineMalformed(t *testing.T) {
	for _, bad := range []string{
		"",
		"100644 blob 89e6c98d92887913cadf06b2adb97f26cde4849b 1342 README.md",
		"100644 blob 1342\tREADME.md",
		"999999 blob 89e6c98d92887913cadf06b2adb97f26cde4849b 1342\tREADME.md",
		"100644 widget 89e6c98d92887913cadf06b2adb97f26cde4849b 1342\tREADME.md",
		"100644 blob nothex 1342\tREADME.md",
		"100644 blob 89e6c98d92887913cadf06b2adb97f26cde4849b huge\tREADME.md",
	} {
		if _, err := ParseTreeLine(bad); err == nil {
			t.Errorf("ParseTreeLine(%q): want error", bad)
		}
	}
}

func TestModePrefix(t *testing.T) {
	cases := []struct {
		mode Mode
		want string
	}{
		{ModeDir, "D"},
		{ModeExecutable, "X"},
		{ModeSymlink, "L"},
		{ModeSubmodule, "S"},
		{ModeFile, "-"},
	}
	for _, c := range cases {
		if got := c.mode.Prefix(); got != c.want {
			t.Errorf("Prefix(%q): got %q, want %q", c.mode, got, c.want)
		}
	}
}
