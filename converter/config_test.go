package converter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	body := "rootPrimName: Scene\nframeStop: 120\nskipKinds: [Camera]\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	options, err := LoadOptionFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if options.RootPrimName != "Scene" {
		t.Error("rootPrimName: ", options.RootPrimName)
	}
	if options.FrameStart != nil {
		t.Error("frameStart should stay unset")
	}
	if options.FrameStop == nil || *options.FrameStop != 120 {
		t.Error("frameStop: ", options.FrameStop)
	}
	if len(options.SkipKinds) != 1 || options.SkipKinds[0] != "Camera" {
		t.Error("skipKinds: ", options.SkipKinds)
	}
}

func TestLoadOptionFileMissing(t *testing.T) {
	if _, err := LoadOptionFile(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing file must error")
	}
}
