package receipt

import (
	"strings"
	"time"
)

// Width is the fixed receipt column width; every line is laid out against it.
const Width = 40

// Builder assembles a fixed-width receipt text block with header, body,
// separator and footer sections.
type Builder struct {
	sb strings.Builder
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Header(bankName, atmCode string, now time.Time) *Builder {
	b.line(center(bankName))
	b.line(center("ATM RECEIPT"))
	b.line(strings.Repeat("-", Width))
	b.line("Date: " + now.Format("02/01/2006 15:04:05"))
	b.line("ATM ID: " + atmCode)
	b.line(strings.Repeat("-", Width))
	return b
}

// Body renders "label....value" with a dot fill. Pairs too wide for one line
// wrap onto two, the value right-aligned.
func (b *Builder) Body(label, value string) *Builder {
	if len(label)+len(value)+2 > Width {
		b.line(label)
		b.line(pad(value))
		return b
	}

	dots := Width - len(label) - len(value)
	b.line(label + strings.Repeat(".", dots) + value)
	return b
}

func (b *Builder) Separator() *Builder {
	b.line(strings.Repeat("-", Width))
	return b
}

func (b *Builder) Footer(message string) *Builder {
	b.line(strings.Repeat("=", Width))
	b.line(center(message))
	b.line(center("Thank you for banking with us."))
	return b
}

func (b *Builder) String() string {
	return b.sb.String()
}

func (b *Builder) line(text string) {
	b.sb.WriteString(text)
	b.sb.WriteString("\n")
}

func center(text string) string {
	if len(text) >= Width {
		return text
	}
	padding := (Width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

func pad(value string) string {
	if len(value) >= Width {
		return value
	}
	return strings.Repeat(" ", Width-len(value)) + value
}
