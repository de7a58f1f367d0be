// Package catalog holds the reference data shipped with the service: the
// strength theme catalog and the static fallback prompt table.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

//go:embed themes.yaml
var themesYAML []byte

//go:embed fallback.yaml
var fallbackYAML []byte

type themeDoc struct {
	Themes []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"themes"`
}

type fallbackDoc struct {
	Prompts []struct {
		ID         string `yaml:"id"`
		ThemeID    string `yaml:"theme_id"`
		Aspect     string `yaml:"aspect"`
		PromptText string `yaml:"prompt_text"`
	} `yaml:"prompts"`
}

// FallbackPrompt is one row of the static degraded-mode table.
type FallbackPrompt struct {
	Prompt types.Prompt
	Theme  types.Theme
}

var (
	loadOnce  sync.Once
	themes    []types.Theme
	themeByID map[uuid.UUID]types.Theme
	fallback  []FallbackPrompt
	loadErr   error
)

func load() {
	loadOnce.Do(func() {
		themes, themeByID, loadErr = parseThemes(themesYAML)
		if loadErr != nil {
			return
		}
		fallback, loadErr = parseFallback(fallbackYAML, themeByID)
	})
}

func parseThemes(raw []byte) ([]types.Theme, map[uuid.UUID]types.Theme, error) {
	var doc themeDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode themes: %w", err)
	}
	out := make([]types.Theme, 0, len(doc.Themes))
	byID := make(map[uuid.UUID]types.Theme, len(doc.Themes))
	names := map[string]bool{}
	for _, t := range doc.Themes {
		id, err := uuid.Parse(strings.TrimSpace(t.ID))
		if err != nil {
			return nil, nil, fmt.Errorf("theme %q: bad id: %w", t.Name, err)
		}
		name := strings.TrimSpace(t.Name)
		if name == "" || names[strings.ToLower(name)] {
			return nil, nil, fmt.Errorf("theme %s: empty or duplicate name %q", id, name)
		}
		if _, dup := byID[id]; dup {
			return nil, nil, fmt.Errorf("duplicate theme id %s", id)
		}
		names[strings.ToLower(name)] = true
		th := types.Theme{ID: id, Name: name, Description: strings.TrimSpace(t.Description)}
		out = append(out, th)
		byID[id] = th
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, byID, nil
}

func parseFallback(raw []byte, byID map[uuid.UUID]types.Theme) ([]FallbackPrompt, error) {
	var doc fallbackDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode fallback: %w", err)
	}
	out := make([]FallbackPrompt, len(types.Aspects))
	seen := make([]bool, len(types.Aspects))
	for _, p := range doc.Prompts {
		aspect, ok := types.ParseAspect(p.Aspect)
		if !ok {
			return nil, fmt.Errorf("fallback prompt %s: unknown aspect %q", p.ID, p.Aspect)
		}
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("fallback prompt: bad id %q: %w", p.ID, err)
		}
		themeID, err := uuid.Parse(p.ThemeID)
		if err != nil {
			return nil, fmt.Errorf("fallback prompt %s: bad theme id: %w", id, err)
		}
		th, ok := byID[themeID]
		if !ok {
			return nil, fmt.Errorf("fallback prompt %s: theme %s not in catalog", id, themeID)
		}
		idx := aspect.Index()
		if seen[idx] {
			return nil, fmt.Errorf("fallback table has two prompts for %s", aspect)
		}
		seen[idx] = true
		out[idx] = FallbackPrompt{
			Prompt: types.Prompt{ID: id, ThemeID: themeID, Aspect: aspect, PromptText: p.PromptText},
			Theme:  th,
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("fallback table missing %s", types.Aspects[i])
		}
	}
	return out, nil
}

// Themes returns a copy of the catalog ordered by name.
func Themes() ([]types.Theme, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return append([]types.Theme(nil), themes...), nil
}

// ThemeByName matches case-insensitively.
func ThemeByName(name string) (types.Theme, bool) {
	load()
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range themes {
		if strings.ToLower(t.Name) == name {
			return t, true
		}
	}
	return types.Theme{}, false
}

// Fallback returns the static per-aspect defaults in aspect order.
func Fallback() ([]FallbackPrompt, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return append([]FallbackPrompt(nil), fallback...), nil
}
