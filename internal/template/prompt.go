package template

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/chzyer/readline"

	"fut/internal/testcase"
)

// ErrAborted is returned when the user interrupts the prompt.
var ErrAborted = errors.New("aborted")

// LineReader is the part of *readline.Instance the prompt uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewTerminal returns a readline instance for interactive prompting.
func NewTerminal() (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// Prompt asks for every field of a definition, starting from the values in seed.
// List fields take comma separated values. An empty answer keeps the seed value.
func Prompt(rl LineReader, seed Data) (Data, error) {
	d := seed
	var err error

	ask := func(label string, dst *string) {
		if err != nil {
			return
		}
		*dst, err = askString(rl, label, *dst)
	}
	askList := func(label string, dst *[]string) {
		if err != nil {
			return
		}
		var raw string
		raw, err = askString(rl, label+" (comma separated)", strings.Join(*dst, ", "))
		*dst = splitList(raw)
	}

	ask("Test id", &d.TestID)
	ask("Description", &d.Description)
	askList("Implementation guides", &d.IGs)
	askList("Profiles", &d.Profiles)
	askList("Extra resources", &d.Resources)
	ask("Instance path", &d.InstancePath)
	if err != nil {
		return d, err
	}

	statuses := append([]string{testcase.StatusSuccess}, testcase.Severities...)
	for {
		ask("Expected status ["+strings.Join(statuses, "|")+"]", &d.Status)
		if err != nil {
			return d, err
		}
		d.Status = strings.ToLower(strings.TrimSpace(d.Status))
		if d.Status == "" || slices.Contains(statuses, d.Status) {
			break
		}
		fmt.Fprintf(os.Stderr, "unknown status %q\n", d.Status)
		d.Status = ""
	}

	askList("Expected fatal codes", &d.Fatal)
	askList("Expected error codes", &d.Error)
	askList("Expected warning codes", &d.Warning)
	askList("Expected information codes", &d.Information)
	return d, err
}

func askString(rl LineReader, label, current string) (string, error) {
	prompt := label + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, current)
	}
	rl.SetPrompt(prompt)

	line, err := rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
		return current, ErrAborted
	case err != nil:
		return current, err
	}

	if line = strings.TrimSpace(line); line == "" {
		return current, nil
	}
	return line, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return compact(strings.Split(raw, ","))
}
