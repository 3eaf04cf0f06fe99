// Package tts turns the broadcast script into an MP3 by shelling out
// to the edge-tts CLI. Edge TTS needs no API key, which keeps the
// audio step free to run daily.
package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const defaultBinary = "edge-tts"

// Synthesizer generates audio files from text.
type Synthesizer struct {
	binary string
	voice  string
	rate   string
	logger zerolog.Logger
}

func NewSynthesizer(logger zerolog.Logger, voice, rate string) *Synthesizer {
	if voice == "" {
		voice = "en-US-AriaNeural"
	}
	if rate == "" {
		rate = "+10%"
	}
	return &Synthesizer{
		binary: defaultBinary,
		voice:  voice,
		rate:   rate,
		logger: logger,
	}
}

// Available reports whether the edge-tts binary is on PATH.
func (s *Synthesizer) Available() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}

// Generate writes an MP3 of the text to outputPath.
func (s *Synthesizer) Generate(ctx context.Context, text, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("script is empty")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create audio directory: %w", err)
	}

	s.logger.Info().
		Str("voice", s.voice).
		Str("rate", s.rate).
		Str("output", outputPath).
		Int("script_chars", len(text)).
		Msg("generating audio")

	cmd := exec.CommandContext(ctx, s.binary,
		"--voice", s.voice,
		"--rate", s.rate,
		"--text", text,
		"--write-media", outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("edge-tts failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("audio file missing after synthesis: %w", err)
	}
	s.logger.Info().
		Int64("bytes", info.Size()).
		Str("path", outputPath).
		Msg("audio generated")
	return nil
}
