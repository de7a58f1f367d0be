package daily

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/data/repos/testutil"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
)

func TestDailyPromptRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDailyPromptRepo(db, testutil.Logger(t))

	theme := testutil.SeedTheme(t, ctx, tx, "DailyRepo Theme")
	career := testutil.SeedPrompt(t, ctx, tx, theme.ID, types.AspectCareer, "career prompt text")
	careerAlt := testutil.SeedPrompt(t, ctx, tx, theme.ID, types.AspectCareer, "another career prompt")
	social := testutil.SeedPrompt(t, ctx, tx, theme.ID, types.AspectSocial, "social prompt text")
	const device = "daily-repo-device"

	row := func(p *types.Prompt, date string) *types.DailyPrompt {
		return &types.DailyPrompt{ID: uuid.New(), DeviceID: device, ForDate: date, Aspect: p.Aspect, ThemeID: p.ThemeID, PromptID: p.ID}
	}
	n, err := repo.CreateIgnoringDuplicates(dbc, []*types.DailyPrompt{row(career, "2024-03-15"), row(social, "2024-03-15")})
	if err != nil || n != 2 {
		t.Fatalf("CreateIgnoringDuplicates: err=%v n=%d", err, n)
	}
	// Same (device, date, aspect) with a different prompt is dropped.
	n, err = repo.CreateIgnoringDuplicates(dbc, []*types.DailyPrompt{row(careerAlt, "2024-03-15")})
	if err != nil || n != 0 {
		t.Fatalf("CreateIgnoringDuplicates duplicate: err=%v n=%d", err, n)
	}

	rows, err := repo.ListHydratedByDeviceAndDate(dbc, device, "2024-03-15")
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListHydratedByDeviceAndDate: err=%v len=%d", err, len(rows))
	}
	for _, r := range rows {
		if r.Aspect == types.AspectCareer && r.PromptID != career.ID {
			t.Fatalf("career row was overwritten: %s", r.PromptID)
		}
		if r.Prompt == nil || r.Theme == nil {
			t.Fatalf("row not hydrated: %+v", r)
		}
	}

	testutil.SeedDailyPrompt(t, ctx, tx, device, "2024-03-01", careerAlt)
	testutil.SeedDailyPrompt(t, ctx, tx, device, "2024-02-29", social)
	ids, err := repo.ListPromptIDsBetween(dbc, device, "2024-03-01", "2024-03-15")
	if err != nil {
		t.Fatalf("ListPromptIDsBetween: %v", err)
	}
	if len(ids) != 1 || ids[0] != careerAlt.ID {
		t.Fatalf("ListPromptIDsBetween: got %v, want only %s", ids, careerAlt.ID)
	}

	deleted, err := repo.DeleteByDeviceAndDate(dbc, device, "2024-03-15")
	if err != nil || deleted != 2 {
		t.Fatalf("DeleteByDeviceAndDate: err=%v n=%d", err, deleted)
	}
	left, err := repo.ListByDeviceAndDate(dbc, device, "2024-03-15")
	if err != nil || len(left) != 0 {
		t.Fatalf("ListByDeviceAndDate after delete: err=%v len=%d", err, len(left))
	}
	if n, err := repo.DeleteByDeviceID(dbc, device); err != nil || n != 2 {
		t.Fatalf("DeleteByDeviceID: err=%v n=%d", err, n)
	}
}

func TestCompletionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCompletionRepo(db, testutil.Logger(t))

	achiever := testutil.SeedTheme(t, ctx, tx, "CompletionRepo Achiever")
	learner := testutil.SeedTheme(t, ctx, tx, "CompletionRepo Learner")
	career := testutil.SeedPrompt(t, ctx, tx, achiever.ID, types.AspectCareer, "finish one hard task")
	social := testutil.SeedPrompt(t, ctx, tx, learner.ID, types.AspectSocial, "teach a friend something")
	physical := testutil.SeedPrompt(t, ctx, tx, achiever.ID, types.AspectPhysical, "walk ten thousand steps")
	const device = "completion-repo-device"

	c := &types.Completion{ID: uuid.New(), DeviceID: device, PromptID: career.ID, Aspect: career.Aspect, ForDate: "2024-03-15"}
	created, err := repo.Create(dbc, c)
	if err != nil || !created {
		t.Fatalf("Create: err=%v created=%v", err, created)
	}
	dup := &types.Completion{ID: uuid.New(), DeviceID: device, PromptID: career.ID, Aspect: career.Aspect, ForDate: "2024-03-15"}
	created, err = repo.Create(dbc, dup)
	if err != nil || created {
		t.Fatalf("Create duplicate: err=%v created=%v", err, created)
	}
	if ok, err := repo.Exists(dbc, device, career.ID, "2024-03-15"); err != nil || !ok {
		t.Fatalf("Exists: err=%v ok=%v", err, ok)
	}

	testutil.SeedCompletion(t, ctx, tx, device, "2024-03-15", physical)
	testutil.SeedCompletion(t, ctx, tx, device, "2024-03-14", social)
	testutil.SeedCompletion(t, ctx, tx, device, "2024-03-12", career)
	testutil.SeedCompletion(t, ctx, tx, "someone-else", "2024-03-15", social)

	today, err := repo.ListByDeviceAndDate(dbc, device, "2024-03-15")
	if err != nil || len(today) != 2 {
		t.Fatalf("ListByDeviceAndDate: err=%v len=%d", err, len(today))
	}

	dates, err := repo.CompletedDates(dbc, device, "2024-03-13", "2024-03-15")
	if err != nil {
		t.Fatalf("CompletedDates: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2024-03-14" || dates[1] != "2024-03-15" {
		t.Fatalf("CompletedDates: got %v", dates)
	}

	byAspect, err := repo.CountByAspect(dbc, device, "2024-03-01", "2024-03-15")
	if err != nil {
		t.Fatalf("CountByAspect: %v", err)
	}
	counts := map[types.Aspect]int64{}
	for _, a := range byAspect {
		counts[a.Aspect] = a.Count
	}
	if counts[types.AspectCareer] != 2 || counts[types.AspectSocial] != 1 || counts[types.AspectPhysical] != 1 {
		t.Fatalf("CountByAspect: got %v", counts)
	}

	byTheme, err := repo.CountByTheme(dbc, device, "2024-03-01", "2024-03-15", 5)
	if err != nil {
		t.Fatalf("CountByTheme: %v", err)
	}
	if len(byTheme) != 2 || byTheme[0].ThemeName != achiever.Name || byTheme[0].Count != 3 || byTheme[1].Count != 1 {
		t.Fatalf("CountByTheme: got %+v", byTheme)
	}

	n, err := repo.Delete(dbc, device, career.ID, "2024-03-15")
	if err != nil || n != 1 {
		t.Fatalf("Delete: err=%v n=%d", err, n)
	}
	if ok, err := repo.Exists(dbc, device, career.ID, "2024-03-15"); err != nil || ok {
		t.Fatalf("Exists after delete: err=%v ok=%v", err, ok)
	}

	n, err = repo.DeleteByDeviceID(dbc, device)
	if err != nil || n != 3 {
		t.Fatalf("DeleteByDeviceID: err=%v n=%d", err, n)
	}
}
