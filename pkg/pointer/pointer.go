// Package pointer parses the "/"-delimited JSON Pointer strings used as field
// paths into message documents.
package pointer

import "strings"

// Path is an immutable sequence of unescaped pointer segments.
// The zero value denotes the document root.
type Path struct {
	segments []string
}

// Root is the empty path.
var Root = Path{}

// Parse splits s into segments. The empty string is the root. A leading "/"
// is optional, so "user/email" and "/user/email" parse the same way.
// Each segment is unescaped with "~1" -> "/" then "~0" -> "~".
func Parse(s string) Path {
	if s == "" {
		return Root
	}
	s = strings.TrimPrefix(s, "/")
	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return Path{segments: parts}
}

// New builds a path from already unescaped segments.
func New(segments ...string) Path {
	if len(segments) == 0 {
		return Root
	}
	return Path{segments: append([]string(nil), segments...)}
}

// Unescape decodes a single segment.
func Unescape(seg string) string {
	if !strings.Contains(seg, "~") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~1", "/")
	return strings.ReplaceAll(seg, "~0", "~")
}

// Escape encodes a single segment for inclusion in a pointer string.
func Escape(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~", "~0")
	return strings.ReplaceAll(seg, "/", "~1")
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// First returns the first segment, or "" for the root.
func (p Path) First() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[0]
}

// Last returns the final segment, or "" for the root.
func (p Path) Last() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Skip drops the first n segments. Skipping past the end yields the root.
func (p Path) Skip(n int) Path {
	if n >= len(p.segments) {
		return Root
	}
	if n <= 0 {
		return p
	}
	return Path{segments: p.segments[n:]}
}

// Parent returns every segment but the last.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return Root
	}
	return Path{segments: p.segments[:len(p.segments)-1]}
}

// Segments returns a copy of the segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// String returns the canonical pointer form with a leading "/".
func (p Path) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(Escape(s))
	}
	return b.String()
}
