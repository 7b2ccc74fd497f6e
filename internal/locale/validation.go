package locale

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"runtime"
)

// ValidationError represents a translation consistency problem
type ValidationError struct {
	Type    string // "missing_translation" or "unused_key"
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// ValidationResult contains all validation errors found
type ValidationResult struct {
	Errors []ValidationError
}

// HasErrors returns true if there are any validation errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ValidateTranslations checks that every key constant in keys.go has a
// translation in every embedded locale file, and that no locale file
// carries keys that keys.go does not declare. Requires source files, so
// it is only callable from tests.
func ValidateTranslations() (*ValidationResult, error) {
	result := &ValidationResult{}

	_, filename, _, _ := runtime.Caller(0)
	keysPath := filepath.Join(filepath.Dir(filename), "keys.go")

	keys, err := extractMessageKeys(keysPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract message keys: %w", err)
	}

	for _, file := range []string{"en.json", "ru.json"} {
		data, err := localizedata.ReadFile("locales/" + file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		for _, key := range keys {
			if _, ok := translations[key]; !ok {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "missing_translation",
					Message: fmt.Sprintf("%s: no translation for key %q", file, key),
				})
			}
		}

		known := make(map[string]bool, len(keys))
		for _, key := range keys {
			known[key] = true
		}
		for key := range translations {
			if !known[key] {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "unused_key",
					Message: fmt.Sprintf("%s: key %q is not declared in keys.go", file, key),
				})
			}
		}
	}

	return result, nil
}

// extractMessageKeys collects the string values of all constants in keys.go
func extractMessageKeys(path string) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, value := range valueSpec.Values {
				lit, ok := value.(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				keys = append(keys, lit.Value[1:len(lit.Value)-1])
			}
		}
	}

	return keys, nil
}
