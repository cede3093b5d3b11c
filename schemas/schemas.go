// Package schemas validates request bodies against the embedded JSON schemas.
package schemas

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.json
var files embed.FS

const baseURL = "https://schemas.property-marketplace.local/"

const (
	Property     = "property"
	Inquiry      = "inquiry"
	Verification = "verification"
	Profile      = "profile"
)

var compiled map[string]*jsonschema.Schema

func init() {
	var err error
	compiled, err = compileAll(files)
	if err != nil {
		panic(err)
	}
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, err
		}
		err = compiler.AddResource(baseURL+name, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	out := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := compiler.Compile(baseURL + name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[strings.TrimSuffix(name, ".json")] = s
	}
	return out, nil
}

// FieldErrors maps a JSON field name (or "body" for the document itself) to
// what is wrong with it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks body against the named schema. A schema violation is
// returned as FieldErrors; malformed JSON is reported under "body".
func Validate(name string, body []byte) error {
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return FieldErrors{"body": "must be valid JSON"}
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	fields := FieldErrors{}
	collect(verr, fields)
	return fields
}

var quoted = regexp.MustCompile(`'([^']+)'`)

func collect(e *jsonschema.ValidationError, out FieldErrors) {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			collect(c, out)
		}
		return
	}

	field := strings.TrimPrefix(e.InstanceLocation, "/")
	if strings.HasPrefix(e.Message, "missing properties") {
		for _, m := range quoted.FindAllStringSubmatch(e.Message, -1) {
			name := m[1]
			if field != "" {
				name = field + "/" + name
			}
			add(out, name, "is required")
		}
		return
	}
	if field == "" {
		field = "body"
	}
	add(out, field, e.Message)
}

func add(out FieldErrors, field, msg string) {
	if prev, ok := out[field]; ok && prev != msg {
		out[field] = prev + "; " + msg
		return
	}
	out[field] = msg
}
