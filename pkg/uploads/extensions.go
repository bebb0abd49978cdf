package uploads

import (
	"slices"
	"strings"
)

type policyKind uint8

const (
	finiteSet policyKind = iota
	allowAll
	allowAllExcept
)

// ExtensionPolicy decides which file extensions an upload set accepts by
// default. The zero value accepts nothing. Extensions are compared exactly:
// callers lower-case them first.
type ExtensionPolicy struct {
	kind policyKind
	set  map[string]struct{}
}

// Extensions returns a policy accepting only the listed extensions.
func Extensions(lists ...[]string) ExtensionPolicy {
	return ExtensionPolicy{kind: finiteSet, set: toSet(lists)}
}

// AllowAll returns a policy accepting every extension, including none.
func AllowAll() ExtensionPolicy {
	return ExtensionPolicy{kind: allowAll}
}

// AllExcept returns a policy accepting every extension except the listed ones.
func AllExcept(lists ...[]string) ExtensionPolicy {
	return ExtensionPolicy{kind: allowAllExcept, set: toSet(lists)}
}

// Contains reports whether ext is accepted by the policy.
func (p ExtensionPolicy) Contains(ext string) bool {
	_, listed := p.set[ext]
	switch p.kind {
	case allowAll:
		return true
	case allowAllExcept:
		return !listed
	default:
		return listed
	}
}

func (p ExtensionPolicy) String() string {
	exts := make([]string, 0, len(p.set))
	for ext := range p.set {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	list := strings.Join(exts, " ")

	switch p.kind {
	case allowAll:
		return "all"
	case allowAllExcept:
		return "all except [" + list + "]"
	default:
		return "[" + list + "]"
	}
}

func toSet(lists [][]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, ext := range list {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Merge concatenates extension lists into a new slice.
func Merge(lists ...[]string) []string {
	return slices.Concat(lists...)
}

// Preset extension groups.
var (
	// Text is plain text files.
	Text = []string{"txt"}

	// Documents is rich text and office documents. Macro-enabled Office
	// formats are not included.
	Documents = []string{"rtf", "odf", "ods", "gnumeric", "abw", "doc", "docx", "xls", "xlsx", "pdf"}

	// Images is common image formats.
	Images = []string{"jpg", "jpe", "jpeg", "png", "gif", "svg", "bmp", "webp"}

	// Audio is common audio formats.
	Audio = []string{"wav", "mp3", "aac", "ogg", "oga", "flac"}

	// Data is structured data formats.
	Data = []string{"csv", "ini", "json", "plist", "xml", "yaml", "yml"}

	// Scripts is scripting languages. If the web server runs PHP, consider
	// adding "php" to the set's DENY setting.
	Scripts = []string{"js", "php", "pl", "py", "rb", "sh"}

	// Archives is archive and compression formats.
	Archives = []string{"gz", "bz2", "zip", "tar", "tgz", "txz", "7z"}

	// Source is source files of compiled languages.
	Source = []string{
		"c", "cpp", "c++", "h", "hpp", "h++", "cxx", "hxx", "hdl",
		"ada", "rs", "go", "f", "for", "f90", "f95", "f03",
		"d", "dd", "di", "java", "hs", "cs", "fs", "cbl", "cob", "asm", "s",
	}

	// Executables is shared libraries and executable files.
	Executables = []string{"so", "exe", "dll"}

	// Defaults is Text, Documents, Images and Data: the policy used when an
	// upload set does not name one.
	Defaults = Merge(Text, Documents, Images, Data)

	// All accepts every extension.
	All = AllowAll()
)
