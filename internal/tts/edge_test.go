package tts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRejectsEmptyScript(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(zerolog.Nop(), "", "")
	err := synth.Generate(context.Background(), "   ", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("expected error for empty script")
	}
}

func TestNewSynthesizerDefaults(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(zerolog.Nop(), "", "")
	if synth.voice != "en-US-AriaNeural" || synth.rate != "+10%" {
		t.Fatalf("defaults not applied: voice=%q rate=%q", synth.voice, synth.rate)
	}
}

func TestGenerateRunsBinary(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("fake binary uses a shell script")
	}

	binDir := t.TempDir()
	// Fake edge-tts: writes a marker file at the --write-media path.
	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--write-media" ]; then out="$2"; fi
  shift
done
printf mp3 > "$out"
`
	fake := filepath.Join(binDir, "edge-tts")
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	synth := NewSynthesizer(zerolog.Nop(), "en-US-AriaNeural", "+10%")
	synth.binary = fake

	out := filepath.Join(t.TempDir(), "audio", "daily_report.mp3")
	if err := synth.Generate(context.Background(), "Hello world.", out); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "mp3" {
		t.Fatalf("output = %q", data)
	}
}
