package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/skill.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// LintResult is the outcome of checking frontmatter against the schema.
// Unlike Parse, Lint reports every problem at once and also flags wrong
// types on optional keys.
type LintResult struct {
	Valid  bool
	Issues []LintIssue
}

// LintIssue is a single schema violation.
type LintIssue struct {
	Path    string // instance location, e.g. "/name"
	Message string
	Keyword string // failing schema keyword, e.g. "pattern"
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("skill.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("skill.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Lint validates the frontmatter of descriptor content against the embedded
// JSON schema. The error return is reserved for content that has no
// frontmatter mapping at all or for schema compilation failures.
func Lint(data []byte) (*LintResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	raw, err := frontmatter(data, "")
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	jsonData, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &LintResult{Valid: true}, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &LintResult{Valid: false, Issues: extractIssues(ve)}, nil
}

// LintDir lints the descriptor inside a skill directory.
func LintDir(dir string) (*LintResult, error) {
	path := DescriptorPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return Lint(data)
}

func extractIssues(ve *jsonschema.ValidationError) []LintIssue {
	var issues []LintIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []LintIssue{{Message: ve.Error()}}
	}
	return dedupe(issues)
}

// collectIssues walks the error tree and keeps leaf errors.
func collectIssues(ve *jsonschema.ValidationError, issues *[]LintIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword, msg := "", ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	// Container keywords carry no useful message of their own.
	if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" {
		return
	}

	*issues = append(*issues, LintIssue{Path: path, Message: msg, Keyword: keyword})
}

func dedupe(issues []LintIssue) []LintIssue {
	seen := make(map[string]bool)
	var result []LintIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML converts YAML-decoded values into JSON-compatible ones.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
