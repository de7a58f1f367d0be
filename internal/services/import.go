package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jellyjae/cliftonstrengths/internal/data/repos"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/observability"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

const (
	colStrength = "strength"
	colDomain   = "wellbeing domain"
	colPrompt   = "prompt"
)

// maxCSVBytes caps a fetched CSV body.
var maxCSVBytes int64 = 32 << 20

// ImportRow is one data line of a prompt CSV. Line is 1-based and counts the header.
type ImportRow struct {
	Line     int
	Strength string
	Domain   string
	Prompt   string
}

type RowProblem struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Total    int          `json:"total"`
	Inserted int          `json:"inserted"`
	Skipped  int          `json:"skipped"`
	Invalid  int          `json:"invalid"`
	Problems []RowProblem `json:"problems,omitempty"`
}

type Analysis struct {
	Rows             int      `json:"rows"`
	UniqueStrengths  []string `json:"unique_strengths"`
	UniqueDomains    []string `json:"unique_domains"`
	UnknownStrengths []string `json:"unknown_strengths"`
	UnknownDomains   []string `json:"unknown_domains"`
}

// CoverageGap names a theme that cannot serve some aspects. A user holding it
// as the day's primary strength gets a prompt from another theme, or none.
type CoverageGap struct {
	Theme   string         `json:"theme"`
	Missing []types.Aspect `json:"missing_aspects"`
}

type CatalogStatus struct {
	Themes          int64                  `json:"themes"`
	Prompts         int64                  `json:"prompts"`
	PromptsByAspect map[types.Aspect]int64 `json:"prompts_by_aspect"`
	Gaps            []CoverageGap          `json:"gaps,omitempty"`
}

// ParseCSV reads a header row followed by data rows. Columns are located by
// header name; without recognizable headers they are taken positionally.
func ParseCSV(r io.Reader) ([]ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	iStrength, iDomain, iPrompt := 0, 1, 2
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case colStrength:
			iStrength = i
		case colDomain, "domain", "aspect":
			iDomain = i
		case colPrompt, "prompt text":
			iPrompt = i
		}
	}

	var out []ImportRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		out = append(out, ImportRow{
			Line:     line,
			Strength: field(rec, iStrength),
			Domain:   field(rec, iDomain),
			Prompt:   field(rec, iPrompt),
		})
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// FetchCSV downloads a CSV export and parses it.
func FetchCSV(ctx context.Context, client *http.Client, url string) ([]ImportRow, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	body := &io.LimitedReader{R: resp.Body, N: maxCSVBytes + 1}
	rows, err := ParseCSV(body)
	if body.N <= 0 {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", url, maxCSVBytes)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type ImportService interface {
	// Import validates rows and inserts the valid ones, skipping prompts that already exist.
	Import(ctx context.Context, rows []ImportRow) (ImportReport, error)
	Analyze(ctx context.Context, rows []ImportRow) (Analysis, error)
	// Status reports catalog size and the (theme, aspect) pairs with no prompt.
	Status(ctx context.Context) (CatalogStatus, error)
}

type importService struct {
	db        *gorm.DB
	log       *logger.Logger
	themes    repos.ThemeRepo
	prompts   repos.PromptRepo
	metrics   *observability.Metrics
	batchSize int
}

func NewImportService(db *gorm.DB, log *logger.Logger, set repos.Set, metrics *observability.Metrics) ImportService {
	return &importService{
		db:        db,
		log:       log.With("service", "ImportService"),
		themes:    set.Theme,
		prompts:   set.Prompt,
		metrics:   metrics,
		batchSize: repos.DefaultPromptBatchSize,
	}
}

func (s *importService) themeIndex(ctx context.Context, rows []ImportRow) (map[string]*types.Theme, error) {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Strength)
	}
	found, err := s.themes.GetByNames(dbctx.From(ctx), names)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}
	byName := make(map[string]*types.Theme, len(found))
	for _, th := range found {
		byName[strings.ToLower(th.Name)] = th
	}
	return byName, nil
}

func (s *importService) Import(ctx context.Context, rows []ImportRow) (ImportReport, error) {
	report := ImportReport{Total: len(rows)}
	byName, err := s.themeIndex(ctx, rows)
	if err != nil {
		return report, err
	}

	type key struct {
		theme  string
		aspect types.Aspect
		text   string
	}
	seen := make(map[key]struct{}, len(rows))
	valid := make([]*types.Prompt, 0, len(rows))
	for _, r := range rows {
		th, ok := byName[strings.ToLower(r.Strength)]
		if !ok {
			report.addProblem(r.Line, fmt.Sprintf("unknown strength %q", r.Strength))
			continue
		}
		aspect, ok := types.ParseAspect(r.Domain)
		if !ok {
			report.addProblem(r.Line, fmt.Sprintf("unknown domain %q", r.Domain))
			continue
		}
		if len([]rune(r.Prompt)) < types.MinPromptTextLen {
			report.addProblem(r.Line, "prompt text too short")
			continue
		}
		if len(r.Prompt) > types.MaxPromptTextBytes {
			report.addProblem(r.Line, "prompt text too long")
			continue
		}
		k := key{th.ID.String(), aspect, r.Prompt}
		if _, dup := seen[k]; dup {
			report.Skipped++
			continue
		}
		seen[k] = struct{}{}
		valid = append(valid, &types.Prompt{
			ThemeID:    th.ID,
			Aspect:     aspect,
			PromptText: r.Prompt,
			Tags:       datatypes.JSON("[]"),
		})
	}

	var inserted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.prompts.CreateIgnoringDuplicates(dbctx.Context{Ctx: ctx, Tx: tx}, valid, s.batchSize)
		inserted = n
		return err
	})
	if err != nil {
		return report, fmt.Errorf("insert prompts: %w", err)
	}
	report.Inserted = int(inserted)
	report.Skipped += len(valid) - report.Inserted

	s.metrics.ImportRows("inserted", report.Inserted)
	s.metrics.ImportRows("skipped", report.Skipped)
	s.metrics.ImportRows("invalid", report.Invalid)
	s.log.Info("prompt import finished",
		"total", report.Total, "inserted", report.Inserted, "skipped", report.Skipped, "invalid", report.Invalid)
	return report, nil
}

func (r *ImportReport) addProblem(line int, reason string) {
	r.Invalid++
	r.Problems = append(r.Problems, RowProblem{Line: line, Reason: reason})
}

func (s *importService) Analyze(ctx context.Context, rows []ImportRow) (Analysis, error) {
	out := Analysis{Rows: len(rows)}
	byName, err := s.themeIndex(ctx, rows)
	if err != nil {
		return out, err
	}
	strengths := map[string]struct{}{}
	domains := map[string]struct{}{}
	unknownStrengths := map[string]struct{}{}
	unknownDomains := map[string]struct{}{}
	for _, r := range rows {
		strengths[r.Strength] = struct{}{}
		domains[r.Domain] = struct{}{}
		if _, ok := byName[strings.ToLower(r.Strength)]; !ok {
			unknownStrengths[r.Strength] = struct{}{}
		}
		if _, ok := types.ParseAspect(r.Domain); !ok {
			unknownDomains[r.Domain] = struct{}{}
		}
	}
	out.UniqueStrengths = sortedKeys(strengths)
	out.UniqueDomains = sortedKeys(domains)
	out.UnknownStrengths = sortedKeys(unknownStrengths)
	out.UnknownDomains = sortedKeys(unknownDomains)
	return out, nil
}

func (s *importService) Status(ctx context.Context) (CatalogStatus, error) {
	dbc := dbctx.From(ctx)
	var out CatalogStatus
	var err error
	if out.Themes, err = s.themes.Count(dbc); err != nil {
		return out, fmt.Errorf("count themes: %w", err)
	}
	if out.Prompts, err = s.prompts.Count(dbc); err != nil {
		return out, fmt.Errorf("count prompts: %w", err)
	}
	themes, err := s.themes.List(dbc)
	if err != nil {
		return out, fmt.Errorf("list themes: %w", err)
	}
	counts, err := s.prompts.CountByThemeAspect(dbc)
	if err != nil {
		return out, fmt.Errorf("count coverage: %w", err)
	}

	out.PromptsByAspect = make(map[types.Aspect]int64, len(types.Aspects))
	for _, a := range types.Aspects {
		out.PromptsByAspect[a] = 0
	}
	covered := make(map[uuid.UUID]map[types.Aspect]bool, len(themes))
	for _, c := range counts {
		out.PromptsByAspect[c.Aspect] += c.Count
		if covered[c.ThemeID] == nil {
			covered[c.ThemeID] = map[types.Aspect]bool{}
		}
		covered[c.ThemeID][c.Aspect] = c.Count > 0
	}
	for _, th := range themes {
		var missing []types.Aspect
		for _, a := range types.Aspects {
			if !covered[th.ID][a] {
				missing = append(missing, a)
			}
		}
		if len(missing) > 0 {
			out.Gaps = append(out.Gaps, CoverageGap{Theme: th.Name, Missing: missing})
		}
	}
	return out, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
