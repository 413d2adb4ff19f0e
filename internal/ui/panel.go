package ui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/idilsaglam/cards/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visibleWidth(s string) int { return utf8.RuneCountInString(stripANSI(s)) }

// Truncate cuts s to max runes, ending with "..." when shortened.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// CardLines renders records as three-line cards separated by blank lines.
func CardLines(records []model.Record) []string {
	t := Current()
	if len(records) == 0 {
		return []string{C(t.Muted, "no records")}
	}
	var out []string
	for i, r := range records {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out,
			fmt.Sprintf("%s %s  %s",
				C(t.Muted, fmt.Sprintf("#%-3d", r.ID)),
				C(t.Title, Truncate(r.Title, 40)),
				C(t.Price, r.Subtitle)),
			"     "+Truncate(r.Note, 72),
			"     "+C(t.Muted, t.SymImage+" "+Truncate(r.ImageRef, 70)),
		)
	}
	return out
}

// Header is the title line with the record count.
func Header(title string, count int) string {
	t := Current()
	return fmt.Sprintf("%s  %s %d", C(t.Title, title), C(t.Accent, "Records"), count)
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	// compute visible width
	maxw := 0
	for _, ln := range lines {
		if w := visibleWidth(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(Out, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(Out, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(Out, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
