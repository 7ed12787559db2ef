// Package usd holds the target scene description: path-addressed prims with
// typed, optionally time-sampled properties. It is the in-memory form handed
// to a description writer; serialization lives elsewhere.
package usd

import "strings"

// Path identifies a prim ("/A/B") or a property ("/A/B.prop").
type Path string

const RootPath Path = "/"

func (p Path) IsRoot() bool {
	return p == RootPath
}

func (p Path) AppendChild(name string) Path {
	if p == RootPath {
		return Path("/" + name)
	}
	return p + Path("/"+name)
}

func (p Path) AppendProperty(name string) Path {
	return p + Path("."+name)
}

// IsPropertyPath reports whether the path addresses a property.
func (p Path) IsPropertyPath() bool {
	return strings.Contains(string(p), ".")
}

// PrimPath strips a property suffix, if any.
func (p Path) PrimPath() Path {
	if i := strings.IndexByte(string(p), '.'); i >= 0 {
		return p[:i]
	}
	return p
}

// Parent returns the enclosing prim path. The parent of a property path is
// its prim; the parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsPropertyPath() {
		return p.PrimPath()
	}
	if i := strings.LastIndexByte(string(p), '/'); i > 0 {
		return p[:i]
	}
	return RootPath
}

// Name returns the last path component (prim name or property name).
func (p Path) Name() string {
	s := string(p)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}
