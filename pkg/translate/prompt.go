package translate

import (
	"sort"
	"strings"
	"text/template"

	"github.com/agentstation/lexicon/pkg/errors"
)

// DefaultContext describes the phrases when no product context is configured.
const DefaultContext = "These phrases belong to the user interface of a software application."

const promptTemplate = `Task:
Translate the following short text phrases into {{.Language}}, ensuring accurate and context-appropriate translations for UI elements such as button labels and section titles.

Context:
{{.Context}}
{{- if .Glossary}}

Glossary of Specific Terms:
{{- range .Glossary}}
{{.Term}}: {{.Meaning}}
{{- end}}
{{- end}}

Instructions:
Do not translate technical terms or product names.
Keep placeholders such as {name} or {{"{{"}}count{{"}}"}} unchanged.
Maintain clarity for UI elements such as button labels and headings.
The input is a JSON array of objects with "key" and "text" fields.
Output your result as a JSON object with the format:
{"result": [{"key": "<key>", "en": "<text>", "translated_value": "<translated text>", "locale": "{{.Locale}}"}]}
`

var compiledPrompt = template.Must(template.New("prompt").Parse(promptTemplate))

// Term is one glossary entry.
type Term struct {
	Term    string
	Meaning string
}

// Prompt renders the system instructions sent with every batch.
type Prompt struct {
	// Context describes the product the phrases belong to.
	Context string
	// Glossary explains domain terms; rendered sorted by term.
	Glossary map[string]string
}

// Render returns the instructions for locale.
func (p *Prompt) Render(locale string) (string, error) {
	ctx := DefaultContext
	var glossary map[string]string
	if p != nil {
		if c := strings.TrimSpace(p.Context); c != "" {
			ctx = c
		}
		glossary = p.Glossary
	}

	terms := make([]Term, 0, len(glossary))
	for term, meaning := range glossary {
		terms = append(terms, Term{Term: term, Meaning: meaning})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Term < terms[j].Term })

	var sb strings.Builder
	err := compiledPrompt.Execute(&sb, struct {
		Language string
		Locale   string
		Context  string
		Glossary []Term
	}{
		Language: Language(locale),
		Locale:   locale,
		Context:  ctx,
		Glossary: terms,
	})
	if err != nil {
		return "", errors.NewConfigError("prompt", "failed to render prompt", err)
	}
	return sb.String(), nil
}
