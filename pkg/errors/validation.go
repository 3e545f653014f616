package errors

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Documents larger than this are rejected before parsing.
const MaxDocumentBytes = 8 << 20

// ValidateDocumentPath validates the path of a dialog document given on the
// command line or to the watcher.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be .json or .dialog
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "document path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".dialog":
		return nil
	default:
		return New(ErrCodeInvalidPath, "document must be a .json or .dialog file: %s", path)
	}
}

// ValidateUserPath validates a file path chosen by the user, such as the
// target of config init, and returns it cleaned. Absolute paths and parent
// references are allowed.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateUserPath(path string) (string, error) {
	if path == "" {
		return "", New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return "", New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return "", New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return filepath.Clean(path), nil
}

// ValidatePath validates a relative path below a managed directory (cache
// entries, output files) for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// selectionSegmentRegex matches one dotted segment of a structural path:
// a field name with any number of array indexes, e.g. "cases[2]".
var selectionSegmentRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\[[0-9]+\])*$`)

// ValidateSelectionID validates a structural path such as
// "triggers[0].actions[2].elseActions[1]". A bare index path like "[3]" is
// accepted for documents whose root is an action array.
func ValidateSelectionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSelectionID, "selection id cannot be empty")
	}
	if len(id) > 1024 {
		return New(ErrCodeInvalidSelectionID, "selection id too long (max 1024 characters)")
	}

	rest := id
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 2 || !isDigits(rest[1:end]) {
			return New(ErrCodeInvalidSelectionID, "invalid selection id: %q", id)
		}
		rest = rest[end+1:]
		if rest == "" {
			return nil
		}
		if !strings.HasPrefix(rest, ".") {
			return New(ErrCodeInvalidSelectionID, "invalid selection id: %q", id)
		}
		rest = rest[1:]
	}

	for seg := range strings.SplitSeq(rest, ".") {
		if !selectionSegmentRegex.MatchString(seg) {
			return New(ErrCodeInvalidSelectionID, "invalid selection id segment %q in %q", seg, id)
		}
	}
	return nil
}

// ValidateFormats checks that every requested output format is supported.
func ValidateFormats(formats, supported []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "no output format requested")
	}
	for _, f := range formats {
		if !slices.Contains(supported, f) {
			return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", f, strings.Join(supported, ", "))
		}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
