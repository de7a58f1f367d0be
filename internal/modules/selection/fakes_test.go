package selection

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

type selectionKey struct {
	device string
	date   string
	aspect types.Aspect
}

// memStore backs all three ports in memory.
type memStore struct {
	mu        sync.Mutex
	strengths map[string][]Strength
	prompts   []Candidate
	rows      map[selectionKey]Assignment

	findCalls int
	findErr   error
	upsertErr error
	listErr   error
	recentErr error
}

func newMemStore() *memStore {
	return &memStore{
		strengths: map[string][]Strength{},
		rows:      map[selectionKey]Assignment{},
	}
}

func (m *memStore) GetStrengths(_ context.Context, deviceID string) ([]Strength, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.strengths[deviceID]
	if !ok {
		return nil, ErrNoProfile
	}
	return append([]Strength(nil), s...), nil
}

func (m *memStore) FindPrompts(_ context.Context, q PromptQuery) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	themes := make(map[uuid.UUID]bool, len(q.ThemeIDs))
	for _, id := range q.ThemeIDs {
		themes[id] = true
	}
	excluded := make(map[uuid.UUID]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}
	var out []Candidate
	for _, p := range m.prompts {
		if p.Aspect != q.Aspect || !themes[p.ThemeID] || excluded[p.ID] {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) UpsertIgnoringDuplicates(_ context.Context, rows []Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, r := range rows {
		k := selectionKey{r.DeviceID, r.ForDate, r.Aspect}
		if _, exists := m.rows[k]; exists {
			continue
		}
		m.rows[k] = r
	}
	return nil
}

func (m *memStore) ListForUserAndDate(_ context.Context, deviceID, date string) ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Assignment
	for k, r := range m.rows {
		if k.device == deviceID && k.date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListRecentPromptIDs(_ context.Context, deviceID, since, before string) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	var out []uuid.UUID
	for k, r := range m.rows {
		if k.device == deviceID && k.date >= since && k.date < before {
			out = append(out, r.PromptID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (m *memStore) count(deviceID, date string) int {
	rows, _ := m.ListForUserAndDate(context.Background(), deviceID, date)
	return len(rows)
}

// seed records a selection as if it had been generated on an earlier day.
func (m *memStore) seed(a Assignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[selectionKey{a.DeviceID, a.ForDate, a.Aspect}] = a
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
	skipped  []types.Aspect
	relaxed  []types.Aspect
}

func newCountingObserver() *countingObserver {
	return &countingObserver{outcomes: map[string]int{}}
}

func (o *countingObserver) SelectionOutcome(outcome string) {
	o.mu.Lock()
	o.outcomes[outcome]++
	o.mu.Unlock()
}

func (o *countingObserver) AspectSkipped(a types.Aspect) {
	o.mu.Lock()
	o.skipped = append(o.skipped, a)
	o.mu.Unlock()
}

func (o *countingObserver) ExclusionRelaxed(a types.Aspect) {
	o.mu.Lock()
	o.relaxed = append(o.relaxed, a)
	o.mu.Unlock()
}

// promptID derives a stable id for (theme index, aspect, variant).
func promptID(theme int, aspect types.Aspect, variant int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(theme), byte(aspect.Index()), byte(variant)})
}

// fullCatalog has `variants` prompts for every (theme, aspect) pair.
func fullCatalog(themes []uuid.UUID, variants int) []Candidate {
	var out []Candidate
	for ti, theme := range themes {
		for _, aspect := range types.Aspects {
			for v := 0; v < variants; v++ {
				out = append(out, Candidate{
					ID:         promptID(ti, aspect, v),
					ThemeID:    theme,
					Aspect:     aspect,
					PromptText: "reflect on " + string(aspect),
				})
			}
		}
	}
	return out
}

func rankedStrengths(themes []uuid.UUID) []Strength {
	out := make([]Strength, len(themes))
	for i, id := range themes {
		out[i] = Strength{ThemeID: id, Rank: i + 1}
	}
	return out
}
