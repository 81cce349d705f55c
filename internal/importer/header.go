package importer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// maxIdentifierLength is PostgreSQL's NAMEDATALEN-1; longer names are
// silently truncated by the server and could collide.
const maxIdentifierLength = 63

const byteOrderMark = "\ufeff"

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrInvalidInput marks failures caused by the CSV file or arguments rather
// than the database.
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

// checkIdentifier validates name and folds it to the lower case PostgreSQL
// uses for unquoted identifiers.
func checkIdentifier(name, kind string) (string, error) {
	if !identifierRegex.MatchString(name) {
		return "", invalidInput("invalid %s name %q", kind, name)
	}
	if len(name) > maxIdentifierLength {
		return "", invalidInput("%s name %q exceeds %d characters", kind, name, maxIdentifierLength)
	}
	return strings.ToLower(name), nil
}

// TableNameFromPath derives the table name from the CSV file name without
// its extension: /data/zip_county.csv -> zip_county.
func TableNameFromPath(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return checkIdentifier(stem, "table")
}

// TableName validates an explicit table name.
func TableName(name string) (string, error) {
	return checkIdentifier(name, "table")
}

// NormalizeHeader strips a leading byte order mark and surrounding
// whitespace from each column name, validates it and rejects empty or
// duplicate names after case folding.
func NormalizeHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, invalidInput("header row has no columns")
	}

	columns := make([]string, 0, len(header))
	seen := make(map[string]int, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(strings.TrimPrefix(raw, byteOrderMark))
		if name == "" {
			return nil, invalidInput("column %d has an empty name", i+1)
		}

		column, err := checkIdentifier(name, "column")
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[column]; dup {
			return nil, invalidInput("duplicate column %q at positions %d and %d", column, prev+1, i+1)
		}
		seen[column] = i
		columns = append(columns, column)
	}

	return columns, nil
}
