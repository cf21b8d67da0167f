package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"newsdesk/internal/content"
)

const (
	headlinesSchema = `{
  "type": "array", "minItems": 3, "maxItems": 3,
  "items": {
    "type": "object",
    "required": ["text"],
    "properties": {"id": {"type": "string"}, "text": {"type": "string", "minLength": 1}, "selected": {"type": "boolean"}}
  }
}`
	scriptSchema = `{
  "type": "object",
  "required": ["text"],
  "properties": {"text": {"type": "string", "minLength": 1}, "duration": {"type": "string"}, "wordCount": {"type": "number"}}
}`
	scriptWithDurationSchema = `{
  "type": "object",
  "required": ["text", "duration"],
  "properties": {"text": {"type": "string", "minLength": 1}, "duration": {"type": "string", "minLength": 1}, "wordCount": {"type": "number"}}
}`
	hashtagsSchema  = `{"type": "array", "items": {"type": "string"}}`
	checklistSchema = `{
  "type": "array",
  "items": {"type": "object", "required": ["id", "label"], "properties": {"id": {"type": "string"}, "label": {"type": "string"}, "checked": {"type": "boolean"}}}
}`
)

func objectSchema(props map[string]string) string {
	var keys, fields []string
	for _, k := range []string{"headlines", "script", "hashtags", "thumbnailChecklist"} {
		s, ok := props[k]
		if !ok {
			continue
		}
		keys = append(keys, fmt.Sprintf("%q", k))
		fields = append(fields, fmt.Sprintf("%q: %s", k, s))
	}
	return fmt.Sprintf(`{"$schema": "https://json-schema.org/draft/2020-12/schema", "type": "object", "required": [%s], "properties": {%s}}`,
		strings.Join(keys, ", "), strings.Join(fields, ", "))
}

var bundleSchemas = map[content.Section]string{
	"": objectSchema(map[string]string{
		"headlines":          headlinesSchema,
		"script":             scriptSchema,
		"hashtags":           hashtagsSchema,
		"thumbnailChecklist": checklistSchema,
	}),
	content.SectionHeadlines: objectSchema(map[string]string{"headlines": headlinesSchema}),
	content.SectionScript:    objectSchema(map[string]string{"script": scriptWithDurationSchema}),
	content.SectionHashtags:  objectSchema(map[string]string{"hashtags": hashtagsSchema}),
}

var (
	compileOnce sync.Once
	compiled    map[content.Section]*jsonschema.Schema
	compileErr  error
)

func schemas() (map[content.Section]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[content.Section]*jsonschema.Schema, len(bundleSchemas))
		for section, src := range bundleSchemas {
			name := string(section)
			if name == "" {
				name = "bundle"
			}
			c := jsonschema.NewCompiler()
			c.Draft = jsonschema.Draft2020
			url := fmt.Sprintf("https://newsdesk.schemas.local/%s.schema.json", name)
			if err := c.AddResource(url, strings.NewReader(src)); err != nil {
				compileErr = fmt.Errorf("schema %s load failed: %w", name, err)
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("schema %s compile failed: %w", name, err)
				return
			}
			compiled[section] = s
		}
	})
	return compiled, compileErr
}

// decodeBundle validates raw JSON against the schema for section and
// decodes it into a bundle.
func decodeBundle(raw []byte, section content.Section) (content.Bundle, error) {
	all, err := schemas()
	if err != nil {
		return content.Bundle{}, err
	}
	schema, ok := all[section]
	if !ok {
		return content.Bundle{}, fmt.Errorf("%w: %q", content.ErrUnknownSection, section)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return content.Bundle{}, invalid(fmt.Errorf("parse model output: %w", err))
	}
	if err := schema.Validate(doc); err != nil {
		return content.Bundle{}, invalid(err)
	}

	var b content.Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return content.Bundle{}, invalid(err)
	}
	return b, nil
}
