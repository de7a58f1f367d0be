package content

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/data/repos/testutil"
	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/dbctx"
)

func TestThemeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewThemeRepo(db, testutil.Logger(t))

	themes := []*types.Theme{
		{ID: uuid.New(), Name: "ThemeRepo Zeta", Description: "z"},
		{ID: uuid.New(), Name: "ThemeRepo Alpha", Description: "a"},
	}
	n, err := repo.UpsertAll(dbc, themes)
	if err != nil {
		t.Fatalf("UpsertAll: %v", err)
	}
	if n != 2 {
		t.Fatalf("UpsertAll: inserted %d, want 2", n)
	}

	again, err := repo.UpsertAll(dbc, []*types.Theme{{ID: themes[0].ID, Name: themes[0].Name, Description: "changed"}})
	if err != nil {
		t.Fatalf("UpsertAll again: %v", err)
	}
	if again != 0 {
		t.Fatalf("UpsertAll again: inserted %d, want 0", again)
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, th := range all {
		if th.ID == themes[0].ID || th.ID == themes[1].ID {
			names = append(names, th.Name)
		}
	}
	if len(names) != 2 || names[0] != "ThemeRepo Alpha" {
		t.Fatalf("List: expected name order, got %v", names)
	}

	byIDs, err := repo.GetByIDs(dbc, []uuid.UUID{themes[0].ID})
	if err != nil || len(byIDs) != 1 || byIDs[0].Description != "z" {
		t.Fatalf("GetByIDs: err=%v rows=%+v", err, byIDs)
	}

	byNames, err := repo.GetByNames(dbc, []string{"themerepo alpha", "  ", "missing"})
	if err != nil || len(byNames) != 1 || byNames[0].ID != themes[1].ID {
		t.Fatalf("GetByNames: err=%v rows=%+v", err, byNames)
	}

	count, err := repo.Count(dbc)
	if err != nil || count < 2 {
		t.Fatalf("Count: err=%v count=%d", err, count)
	}
}
