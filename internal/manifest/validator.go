package manifest

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/plugin.schema.json
var schemaJSON []byte

const schemaURL = "plugin.schema.json"

var (
	pluginSchema = sync.OnceValues(compileSchema)
	issuePrinter = message.NewPrinter(language.English)
)

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("decoding plugin schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding plugin schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling plugin schema: %w", err)
	}
	return s, nil
}

// Issue is one schema violation in a manifest.
type Issue struct {
	// Path is a JSON pointer into the manifest; "" is the document root.
	Path    string
	Keyword string
	Message string
}

func (i Issue) String() string {
	return cmp.Or(i.Path, "/") + ": " + i.Message
}

// Validate checks manifest YAML against the plugin schema and returns the
// violations, ordered by path. No issues means the manifest is valid. The
// error is reserved for YAML that cannot be decoded.
func Validate(data []byte) ([]Issue, error) {
	s, err := pluginSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	// The validator expects encoding/json value types.
	buf, err := json.Marshal(jsonValue(doc))
	if err != nil {
		return nil, fmt.Errorf("converting manifest to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("converting manifest to JSON: %w", err)
	}

	err = s.Validate(inst)
	var verr *jsonschema.ValidationError
	switch {
	case err == nil:
		return nil, nil
	case !errors.As(err, &verr):
		return nil, err
	}

	issues := leafIssues(verr, nil)
	if len(issues) == 0 {
		return []Issue{{Message: verr.Error()}}, nil
	}
	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Or(strings.Compare(a.Path, b.Path), strings.Compare(a.Keyword, b.Keyword))
	})
	return slices.Compact(issues), nil
}

// leafIssues flattens the cause tree. Only leaves carry a keyword that
// names a concrete manifest problem such as a missing view title.
func leafIssues(ve *jsonschema.ValidationError, out []Issue) []Issue {
	for _, c := range ve.Causes {
		out = leafIssues(c, out)
	}
	if len(ve.Causes) > 0 || ve.ErrorKind == nil {
		return out
	}
	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return out
	}
	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	return append(out, Issue{
		Path:    path,
		Keyword: kw[len(kw)-1],
		Message: ve.ErrorKind.LocalizedString(issuePrinter),
	})
}

// InvalidError reports a manifest that failed schema validation.
type InvalidError struct {
	Path   string
	Issues []Issue
}

func (e *InvalidError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, strings.Join(parts, "; "))
}

// jsonValue rewrites decoded YAML so encoding/json can marshal it; yaml.v3
// produces map[any]any for mappings with non-string keys.
func jsonValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jsonValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = jsonValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = jsonValue(e)
		}
		return out
	}
	return v
}
