package lexicon

import (
	"sync"

	"github.com/agentstation/lexicon/pkg/translate"
)

// Hook function types for pipeline events
type (
	// LocaleTranslatedHook is called once per locale after Translate
	LocaleTranslatedHook func(outcome translate.Outcome)

	// FileSavedHook is called after a locale file is written by Patch
	FileSavedHook func(result FileResult)
)

// hooks manages event callbacks for pipeline events
type hooks struct {
	mu                 sync.RWMutex
	onLocaleTranslated []LocaleTranslatedHook
	onFileSaved        []FileSavedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnLocaleTranslated registers a callback for finished locales
func (h *hooks) OnLocaleTranslated(fn LocaleTranslatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLocaleTranslated = append(h.onLocaleTranslated, fn)
}

// OnFileSaved registers a callback for written files
func (h *hooks) OnFileSaved(fn FileSavedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFileSaved = append(h.onFileSaved, fn)
}

func (h *hooks) triggerLocaleTranslated(outcome translate.Outcome) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onLocaleTranslated {
		hook(outcome)
	}
}

// triggerFileSaved may be called from several locale workers at once.
func (h *hooks) triggerFileSaved(result FileResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFileSaved {
		hook(result)
	}
}
