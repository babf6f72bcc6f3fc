package glang

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedLangs(t *testing.T) {
	en, err := NewGUILangWorker("", "en")
	if err != nil {
		t.Fatal(err)
	}
	ru, err := NewGUILangWorker("", "ru")
	if err != nil {
		t.Fatal(err)
	}
	for key := range en.dict {
		if _, ok := ru.dict[key]; !ok {
			t.Errorf("ru misses %q", key)
		}
	}
	if en.T("button.undo") != "Undo" {
		t.Errorf("T(button.undo) = %q", en.T("button.undo"))
	}
	if en.T("no.such.key") != "no.such.key" {
		t.Error("unknown key not returned as is")
	}
	if _, err := NewGUILangWorker("", "xx"); err == nil {
		t.Error("unsupported language accepted")
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lang"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lang", "en.json"), []byte(`{"button.undo":"Back"}`), 0644); err != nil {
		t.Fatal(err)
	}
	lw, err := NewGUILangWorker(dir, "en")
	if err != nil {
		t.Fatal(err)
	}
	if lw.T("button.undo") != "Back" {
		t.Errorf("disk copy ignored: %q", lw.T("button.undo"))
	}
	// ru is not on disk, embedded is used
	if err := lw.SetLang(RU); err != nil || lw.GetLang() != RU {
		t.Errorf("SetLang(RU) = %v", err)
	}
}
