package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"toknames/internal/diag"
)

type palette struct {
	err, warn, info, loc, text *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		loc:  color.New(color.Bold),
		text: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.loc, p.text} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders one diagnostic per line:
//
//	<path>:<line>: <SEV> <CODE>: <message>
//
// Call bag.Sort() first for deterministic output.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(d.Location()),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message,
		); err != nil {
			return err
		}
		if opts.ShowText && d.Text != "" {
			if _, err := fmt.Fprintf(w, "    %s\n", p.text.Sprint(d.Text)); err != nil {
				return err
			}
		}
	}
	if opts.Summary {
		_, err := fmt.Fprintf(w, "%s, %s\n", plural(errs, "error"), plural(warns, "warning"))
		return err
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
