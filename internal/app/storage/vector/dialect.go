package vector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported drivers
type Dialect struct {
	Driver     string
	VectorType string
	BoolType   string
	Extension  string
	positional bool
}

var (
	// Postgres stores vectors in a pgvector column
	Postgres = Dialect{Driver: "postgres", VectorType: "vector", BoolType: "BOOLEAN", Extension: "CREATE EXTENSION IF NOT EXISTS vector", positional: true}
	// SQLite stores vectors as pgvector formatted text
	SQLite = Dialect{Driver: "sqlite3", VectorType: "TEXT", BoolType: "INTEGER"}
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DialectFor returns the dialect of driver
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Placeholder returns the n-th (1-based) bind parameter
func (d Dialect) Placeholder(n int) string {
	if d.positional {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns n comma separated bind parameters
func (d Dialect) Placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// vectorExpr wraps the bind parameter of a vector column
func (d Dialect) vectorExpr(n int) string {
	if d.positional {
		return d.Placeholder(n) + "::vector"
	}
	return d.Placeholder(n)
}

func validIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

// vectorToString converts a float32 slice to pgvector string format
func vectorToString(vector []float32) string {
	if len(vector) == 0 {
		return "[]"
	}

	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// stringToVector converts pgvector string format to float32 slice
func stringToVector(str string) ([]float32, error) {
	str = strings.TrimSpace(str)
	str = strings.TrimPrefix(str, "[")
	str = strings.TrimSuffix(str, "]")
	if strings.TrimSpace(str) == "" {
		return nil, nil
	}

	parts := strings.Split(str, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %d: %w", i, err)
		}
		vector[i] = float32(f)
	}
	return vector, nil
}
