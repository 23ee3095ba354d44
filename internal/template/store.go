package template

import (
	"fmt"
	"sync"

	"github.com/zgsm-ai/tool-reply/internal/types"
)

// Store is an in-process registry of prompt templates keyed by
// (category, style). Lookups are read-only for the pipeline; custom
// templates may be registered at startup.
type Store struct {
	mu        sync.RWMutex
	templates map[templateKey]*types.PromptTemplate
}

type templateKey struct {
	category types.ToolCategory
	style    types.ResponseStyle
}

// NewStore creates a store seeded with the built-in templates for every
// (category, style) pair
func NewStore() *Store {
	s := &Store{
		templates: make(map[templateKey]*types.PromptTemplate),
	}

	for _, category := range types.AllCategories {
		for _, style := range types.AllStyles {
			s.templates[templateKey{category, style}] = buildDefaultTemplate(category, style)
		}
	}

	return s
}

// GetTemplate returns the template for (category, style)
func (s *Store) GetTemplate(category types.ToolCategory, style types.ResponseStyle) (*types.PromptTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[templateKey{category, style}]
	if !ok {
		return nil, fmt.Errorf("no template registered for category %q style %q", category, style)
	}
	return t, nil
}

// GetAllTemplates returns every registered template
func (s *Store) GetAllTemplates() []*types.PromptTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*types.PromptTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		all = append(all, t)
	}
	return all
}

// Register adds or replaces a template
func (s *Store) Register(t *types.PromptTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[templateKey{t.Category, t.Style}] = t
}

// GetAvailableStyles lists the styles selectable for a category. Any lookup
// failure degrades to a single conversational entry rather than an error.
func (s *Store) GetAvailableStyles(category types.ToolCategory) []types.StyleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var styles []types.StyleInfo
	for _, style := range types.AllStyles {
		if _, ok := s.templates[templateKey{category, style}]; ok {
			styles = append(styles, styleInfo(style))
		}
	}

	if len(styles) == 0 {
		return []types.StyleInfo{styleInfo(types.StyleConversational)}
	}
	return styles
}

func styleInfo(style types.ResponseStyle) types.StyleInfo {
	switch style {
	case types.StyleBusiness:
		return types.StyleInfo{
			Name:            style,
			Description:     "Professional and outcome-focused",
			Characteristics: []string{"formal tone", "concise", "action oriented"},
		}
	case types.StyleTechnical:
		return types.StyleInfo{
			Name:            style,
			Description:     "Precise and detail-rich",
			Characteristics: []string{"exact figures", "terminology", "timing details"},
		}
	case types.StyleCasual:
		return types.StyleInfo{
			Name:            style,
			Description:     "Relaxed and friendly",
			Characteristics: []string{"informal tone", "emojis welcome", "short sentences"},
		}
	default:
		return types.StyleInfo{
			Name:            types.StyleConversational,
			Description:     "Natural and approachable",
			Characteristics: []string{"plain language", "warm tone", "helpful framing"},
		}
	}
}
