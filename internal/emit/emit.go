// Package emit renders a token table as source text.
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"

	"toknames/internal/tokentab"
)

// Format selects the output language.
type Format uint8

const (
	// FormatC emits `const char *name[] = {...};`.
	FormatC Format = iota
	// FormatGo emits a generated Go file with a [...]string array.
	FormatGo
	// FormatJSON emits a JSON array of strings.
	FormatJSON
)

const (
	DefaultName    = "toknames"
	DefaultPackage = "parser"
)

func (f Format) String() string {
	switch f {
	case FormatC:
		return "c"
	case FormatGo:
		return "go"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// Ext is the conventional file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatGo:
		return ".go"
	case FormatJSON:
		return ".json"
	}
	return ".c"
}

// ParseFormat converts a flag or manifest value to Format. Empty means C.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c":
		return FormatC, nil
	case "go":
		return FormatGo, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatC, fmt.Errorf("unsupported format %q (must be c, go or json)", s)
}

// Options controls rendering.
type Options struct {
	Format  Format
	Name    string // array identifier
	Package string // Go package clause, FormatGo only
}

func (o Options) name() string {
	if o.Name == "" {
		return DefaultName
	}
	return o.Name
}

func (o Options) pkg() string {
	if o.Package == "" {
		return DefaultPackage
	}
	return o.Package
}

// Write renders t to w. Nothing is written when rendering fails.
func Write(w io.Writer, t tokentab.Table, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, t, opts); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Render appends the rendered table to buf.
func Render(buf *bytes.Buffer, t tokentab.Table, opts Options) error {
	if !isIdent(opts.name()) {
		return fmt.Errorf("invalid array name %q", opts.name())
	}
	switch opts.Format {
	case FormatC:
		renderC(buf, t, opts.name())
		return nil
	case FormatGo:
		if !isIdent(opts.pkg()) {
			return fmt.Errorf("invalid package name %q", opts.pkg())
		}
		return renderGo(buf, t, opts.name(), opts.pkg())
	case FormatJSON:
		return renderJSON(buf, t)
	}
	return fmt.Errorf("unsupported format %v", opts.Format)
}

func renderC(buf *bytes.Buffer, t tokentab.Table, name string) {
	fmt.Fprintf(buf, "const char *%s[] = {\n", name)
	for _, item := range t {
		buf.WriteString("\t\"")
		buf.WriteString(cEscape(item))
		buf.WriteString("\",\n")
	}
	buf.WriteString("};\n")
}

func renderGo(buf *bytes.Buffer, t tokentab.Table, name, pkg string) error {
	var src bytes.Buffer
	src.WriteString("// Code generated by toknames. DO NOT EDIT.\n\n")
	fmt.Fprintf(&src, "package %s\n\n", pkg)
	fmt.Fprintf(&src, "var %s = [...]string{\n", name)
	for _, item := range t {
		src.WriteString("\t")
		src.WriteString(strconv.Quote(item))
		src.WriteString(",\n")
	}
	src.WriteString("}\n")
	out, err := format.Source(src.Bytes())
	if err != nil {
		return fmt.Errorf("format generated go: %w", err)
	}
	buf.Write(out)
	return nil
}

func renderJSON(buf *bytes.Buffer, t tokentab.Table) error {
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode([]string(t))
}

func cEscape(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
