// Package promptforge parses, validates and renders LLM prompt templates.
//
// Two placeholder styles are supported and detected automatically:
//
// FmtString uses single braces with an optional format spec, and doubled
// braces as escapes:
//
//	t := promptforge.MustParse("Hello, {name}! Score: {score:>6.2}")
//	out, err := t.Render(promptforge.MustVars(map[string]any{
//	    "name":  "Alice",
//	    "score": 91.5,
//	}))
//	// out: "Hello, Alice! Score:  91.50"
//
// Mustache uses double braces, with sections, inverted sections,
// comments and triple-brace unescaped interpolation:
//
//	t := promptforge.MustParse("{{#items}}- {{.}}\n{{/items}}{{^items}}(none)\n{{/items}}")
//
// A template never mixes the two styles; sources that do are rejected at
// parse time with a mixed-format error carrying both positions.
//
// # Detection
//
// DetectStyle classifies a source without building the full syntax tree:
//
//	style, err := promptforge.DetectStyle("Hi {name}")
//	// style: promptforge.StyleFmtString
//
// Detection can be overridden per parse with WithStyle, which is how a
// source like "{{ and }}" is treated as FmtString brace escapes instead
// of a Mustache variable.
//
// # Rendering
//
// Render is strict by default: the first unresolved variable fails with
// a positioned error. PolicyLenient substitutes the empty string and
// reports the misses instead:
//
//	out, report, err := t.RenderWithReport(vars,
//	    promptforge.WithMissingVariablePolicy(promptforge.PolicyLenient))
//
// # Chat templates
//
// ChatTemplate composes role-tagged message templates, with
// MessagesPlaceholder splicing conversation history into the sequence.
// FewShotTemplate formats example lists. See ChatTemplate and
// FewShotTemplate.
//
// # Storage
//
// Parsed sources can be persisted through the TemplateStorage interface.
// Memory, filesystem and PostgreSQL drivers register themselves under
// the names "memory", "filesystem" and "postgres":
//
//	store, err := promptforge.OpenStorage("memory", "")
package promptforge
