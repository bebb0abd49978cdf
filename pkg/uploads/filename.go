package uploads

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeRuns = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Device names Windows reserves regardless of extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// fallbackStem replaces a stem that sanitizing removed completely.
const fallbackStem = "unnamed"

// ExtensionOf returns the part of the final path component after its last
// dot, without the dot, or "" if there is none.
//
//	ExtensionOf("archive.tar.gz") // "gz"
//	ExtensionOf("photos/boat")    // ""
func ExtensionOf(filename string) string {
	base := filename[strings.LastIndexAny(filename, `/\`)+1:]
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return ""
}

// LowercaseExtension lower-cases only the trailing extension of name. The
// stem keeps its case.
//
//	LowercaseExtension("ARCHIVE.TAR.GZ") // "ARCHIVE.TAR.gz"
func LowercaseExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name
	}
	return name[:i+1] + strings.ToLower(name[i+1:])
}

// SecureBasename reduces an untrusted client filename to a flat basename
// that is safe to join with a destination directory.
//
// Accents are folded to ASCII and other non-ASCII characters dropped.
// Directory components are flattened into the name with underscores and
// "." and ".." segments are discarded. Every run of characters outside
// [A-Za-z0-9._-] becomes a single underscore, and leading or trailing dots
// and underscores are trimmed. Windows device names get an underscore
// prefix.
//
//	SecureBasename("/etc/passwd")        // "etc_passwd"
//	SecureBasename("../../my_app.wsgi")  // "my_app.wsgi"
//	SecureBasename("Café menu.PDF")      // "Cafe_menu.PDF"
//
// If the stem disappears but the extension survives, "unnamed" is used as
// the stem. ErrInvalidFilename is returned when nothing usable remains.
func SecureBasename(filename string) (string, error) {
	folded, _, err := transform.String(asciiFold(), filename)
	if err != nil {
		folded = filename
	}

	parts := strings.FieldsFunc(folded, func(r rune) bool { return r == '/' || r == '\\' })
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}

	name := clean(strings.Join(kept, "_"))
	if ext := clean(ExtensionOf(folded)); ext != "" && !strings.Contains(name, ".") {
		name = fallbackStem + "." + ext
	}
	if name == "" {
		return "", ErrInvalidFilename
	}

	stem, _, _ := strings.Cut(name, ".")
	if _, reserved := reservedNames[strings.ToUpper(stem)]; reserved {
		name = "_" + name
	}

	return name, nil
}

// basename is the name Save stores a candidate under before conflicts.
func basename(filename string) (string, error) {
	secured, err := SecureBasename(filename)
	if err != nil {
		return "", err
	}
	return LowercaseExtension(secured), nil
}

func clean(s string) string {
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "._")
}

// asciiFold decomposes characters and drops everything outside ASCII, so
// "é" becomes "e" and "天" disappears. transform.Transformer is stateful,
// hence a fresh chain per call.
func asciiFold() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}
