// Package hints provides next-step guidance printed after a command.
package hints

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// NewCommand creates a new hint with a specific command.
func NewCommand(message, command string) *Hint {
	return &Hint{Message: message, Command: command}
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	s := "💡 " + h.Message
	if h.Command != "" {
		s += "\n   Run: " + h.Command
	}
	return s
}

// Write prints hints separated by blank lines.
func Write(w io.Writer, hints []*Hint) {
	for _, h := range hints {
		fmt.Fprintf(w, "\n%s\n", h)
	}
}

// AfterCompare suggests what to do with a comparison result.
func AfterCompare(s differ.ChangesetSummary) []*Hint {
	var out []*Hint
	if s.TotalMissing > 0 {
		out = append(out, NewCommand(
			fmt.Sprintf("%d missing %s across %s", s.TotalMissing, plural(s.TotalMissing, "key"), localeCount(len(s.Locales))),
			"lexicon translate"))
	}
	if s.TotalExtraneous > 0 {
		out = append(out, New(
			fmt.Sprintf("%d %s not in the reference locale; see the comparison report", s.TotalExtraneous, plural(s.TotalExtraneous, "key"))))
	}
	if len(out) == 0 && len(s.Locales) > 0 {
		out = append(out, New("Every locale is complete"))
	}
	return out
}

// AfterTranslate points at patch, and at a retry for failed locales.
func AfterTranslate(outcomes []translate.Outcome) []*Hint {
	var out []*Hint
	var failed []string
	translated := 0
	for _, o := range outcomes {
		if o.Failed {
			failed = append(failed, o.Locale)
			continue
		}
		translated += o.Translated
	}
	if translated > 0 {
		out = append(out, NewCommand(
			fmt.Sprintf("Review %d %s, then write them to the locale files", translated, plural(translated, "translation")),
			"lexicon patch --dry-run"))
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		out = append(out, NewCommand(
			"Translation failed for "+strings.Join(failed, ", "),
			"lexicon translate --fresh --locales "+strings.Join(failed, ",")))
	}
	return out
}

// AfterPatch suggests writing the files after a dry run.
func AfterPatch(s *lexicon.PatchSummary) []*Hint {
	n := s.ChangedFiles()
	if n == 0 {
		return nil
	}
	if s.DryRun {
		return []*Hint{NewCommand(fmt.Sprintf("%d %s would change", n, plural(n, "file")), "lexicon patch")}
	}
	if c := s.Stats().Conflicts; c > 0 {
		return []*Hint{New(fmt.Sprintf("%d %s could not be placed; run with -v for details", c, plural(c, "value")))}
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func localeCount(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "locale"))
}
