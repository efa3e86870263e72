//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/lexicon --repository.default-branch master --repository.path /

// Package lexicon reconciles hierarchical translation catalogs. It compares
// every locale against a reference locale, sends the missing strings to a
// translation provider, and merges the answers back into the locale files
// without losing structure.
package lexicon
