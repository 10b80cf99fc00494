package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveDeletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch.mrc")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	res := Remove(path)
	if res.State != Deleted || !res.Ok() || res.Err != nil {
		t.Fatalf("remove of existing file = %+v, want deleted", res)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after removal")
	}
}

func TestRemoveAbsent(t *testing.T) {
	res := Remove(filepath.Join(t.TempDir(), "never-made.mrc"))
	if res.State != AlreadyAbsent || !res.Ok() || res.Err != nil {
		t.Fatalf("remove of absent file = %+v, want already absent", res)
	}
}

func TestRemoveFails(t *testing.T) {
	// A non-empty directory cannot be removed with os.Remove.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	res := Remove(dir)
	if res.State != Failed || res.Ok() {
		t.Fatalf("remove of non-empty directory = %+v, want failed", res)
	}
	if res.Err == nil {
		t.Error("failed removal should carry the underlying error")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Deleted:       "deleted",
		AlreadyAbsent: "already absent",
		Failed:        "failed",
		State(9):      "State(9)",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
