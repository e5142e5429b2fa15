package model

// PatternKind selects how a filter expression is interpreted.
type PatternKind int

const (
	// PatternSubstring treats the expression as a literal substring.
	PatternSubstring PatternKind = iota
	// PatternGlob treats the expression as a shell-style glob
	// (path.Match syntax, so `*` does not cross path separators).
	PatternGlob
)

// FilterConfig describes the include/exclude filter applied to candidates.
// The zero value means "no filter": every candidate passes.
type FilterConfig struct {
	Expression string
	Exclude    bool // keep files that do NOT match
	Kind       PatternKind
	IgnoreCase bool
	MatchPath  bool // match against the full path instead of the base name
}

// Enabled reports whether a filter expression was configured.
func (f FilterConfig) Enabled() bool {
	return f.Expression != ""
}

// SelectorConfig configures candidate file enumeration.
type SelectorConfig struct {
	Recursive bool
	Filter    FilterConfig
}

// AlbumMode selects how uploaded media is assigned to albums.
type AlbumMode int

const (
	AlbumNone AlbumMode = iota
	AlbumFixed
	// AlbumAuto derives the album name from each file's immediate parent
	// directory. Same-named directories at different paths map to
	// distinct albums.
	AlbumAuto
)

// AlbumDirective is the caller's album assignment request.
type AlbumDirective struct {
	Mode AlbumMode
	Name string // only for AlbumFixed
}
