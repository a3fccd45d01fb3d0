package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// runFunc runs a command and returns its stderr output with any error.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// splitCommand turns a configured command line into name + args. Quoting is
// not supported.
func splitCommand(line string) (string, []string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, errors.New("empty command")
	}
	return fields[0], fields[1:], nil
}

// commandAvailable reports whether the program of a command line is on PATH.
func commandAvailable(line string) bool {
	name, _, err := splitCommand(line)
	if err != nil {
		return false
	}
	_, err = exec.LookPath(name)
	return err == nil
}

// CommandSpeaker speaks by running a local TTS program (espeak, say, ...) with
// the text as its last argument. Utterances are played one at a time.
type CommandSpeaker struct {
	name string
	args []string
	run  runFunc
	mu   sync.Mutex
}

func NewCommandSpeaker(line string) (*CommandSpeaker, error) {
	name, args, err := splitCommand(line)
	if err != nil {
		return nil, fmt.Errorf("speech command: %w", err)
	}
	return &CommandSpeaker{name: name, args: args, run: runCommand}, nil
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	text = stripMarkdown(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	args := append(append([]string(nil), s.args...), text)
	if stderr, err := s.run(ctx, s.name, args...); err != nil {
		return fmt.Errorf("running %s: %w: %s", s.name, err, bytes.TrimSpace(stderr))
	}
	return nil
}

// stripMarkdown drops the emphasis and bullet markers replies are formatted
// with, so they are not read aloud.
func stripMarkdown(text string) string {
	r := strings.NewReplacer("**", "", "__", "", "`", "", "#", "")
	lines := strings.Split(r.Replace(text), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimPrefix(line, "- ")
		lines[i] = line
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isPermissionDenied recognizes a recorder that was refused the microphone.
func isPermissionDenied(err error, stderr []byte) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	msg := strings.ToLower(string(stderr))
	for _, marker := range []string{"permission denied", "not allowed", "operation not permitted", "access denied"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
