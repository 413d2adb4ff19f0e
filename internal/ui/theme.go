package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Price string
	CornerTL, CornerTR, CornerBL, CornerBR     string
	H, V                                       string
	SymOK, SymFail, SymImage                   string
	NoColor                                    bool // wins over -color
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Price: fgYellow,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymOK: "✔", SymFail: "✖", SymImage: "▣",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Price: "\033[93m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖", SymImage: "◈",
		}
	case "mono":
		current = Theme{
			NoColor:  true,
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymOK: "ok", SymFail: "error", SymImage: "img",
		}
	default:
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }
