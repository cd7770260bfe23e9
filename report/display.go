package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColorFG = pterm.FgRed
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warnColorFG  = pterm.FgYellow
	infoColorFG  = pterm.FgLightGreen
)

// PtermSink is the default, colorized Sink implementation: it prints each
// diagnostic with a banner, source-line excerpt, and caret underlining the
// way chai's logging package renders compile messages. It performs no file
// I/O itself — the Source supplied with each diagnostic is responsible for
// the source text.
type PtermSink struct {
	isErr bool
}

// NewPtermSink creates an empty PtermSink.
func NewPtermSink() *PtermSink {
	return &PtermSink{}
}

func (s *PtermSink) Report(msg Message) {
	if msg.Severity == SeverityError {
		s.isErr = true
	}

	displayBanner(msg)
	fmt.Println(msg.Text)

	if msg.Span != nil && msg.Source != nil {
		displaySourceExcerpt(msg.Source, msg.Span)
	} else {
		fmt.Println()
	}
}

func (s *PtermSink) Succeeded() bool {
	return !s.isErr
}

// -----------------------------------------------------------------------------

func displayBanner(msg Message) {
	fmt.Print("\n-- ")

	if msg.Severity == SeverityError {
		errorStyleBG.Print("Type Error")
	} else {
		warnStyleBG.Print("Type Warning")
	}

	fmt.Print(" ")

	name := ""
	if msg.Source != nil {
		name = msg.Source.Name()
	}

	if msg.Span != nil {
		name = fmt.Sprintf("%s:%d:%d", name, msg.Span.StartLine+1, msg.Span.StartCol+1)
	}

	bannerWidth := pterm.GetTerminalWidth() / 2
	if bannerWidth > 60 {
		bannerWidth = 60
	}

	dashCount := bannerWidth - len(name) - 13
	if dashCount < 3 {
		dashCount = 3
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	infoColorFG.Println(name)
}

// displaySourceExcerpt renders the source lines spanned by span, underlined
// with carets, the way chai's displaySourceText does — adapted to pull lines
// from a report.Source instead of opening a file directly.
func displaySourceExcerpt(src Source, span *Span) {
	fmt.Println()

	var lines []string
	for ln := span.StartLine; ln <= span.EndLine; ln++ {
		line, ok := src.Line(ln)
		if !ok {
			break
		}

		lines = append(lines, strings.ReplaceAll(line, "\t", "    "))
	}

	if len(lines) == 0 {
		return
	}

	minIndent := len(lines[0])
	for _, line := range lines {
		indent := 0
		for _, c := range line {
			if c == ' ' {
				indent++
			} else {
				break
			}
		}

		if indent < minIndent {
			minIndent = indent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmt := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Printf(lineNumFmt, i+span.StartLine+1)

		trimmed := line
		if minIndent <= len(line) {
			trimmed = line[minIndent:]
		}
		fmt.Println(trimmed)

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		prefix := 0
		if i == 0 {
			prefix = span.StartCol - minIndent
			if prefix < 0 {
				prefix = 0
			}
		}

		suffix := 0
		if i == len(lines)-1 {
			suffix = len(line) - span.EndCol
			if suffix < 0 {
				suffix = 0
			}
		}

		caretCount := len(line) - suffix - prefix - minIndent
		if caretCount < 1 {
			caretCount = 1
		}

		fmt.Print(strings.Repeat(" ", prefix))
		errorColorFG.Println(strings.Repeat("^", caretCount))
	}

	fmt.Println()
}
