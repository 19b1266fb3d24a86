package scope

import (
	"errors"
	"strings"
	"testing"

	"github.com/scopekit/scopekit/internal/aspect"
	"github.com/scopekit/scopekit/internal/filter"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir(), MaxResults: 50})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGet(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add("Plan the garden")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(sc.ID) != 26 {
		t.Errorf("ID = %q, want a 26-character ULID", sc.ID)
	}
	if sc.Status != StatusPending {
		t.Errorf("Status = %q, want %q", sc.Status, StatusPending)
	}
	if sc.Alias != "plan-the-garden" {
		t.Errorf("Alias = %q, want %q", sc.Alias, "plan-the-garden")
	}

	byID, err := s.Get(sc.ID)
	if err != nil {
		t.Fatalf("Get by id: %v", err)
	}
	byAlias, err := s.Get("plan-the-garden")
	if err != nil {
		t.Fatalf("Get by alias: %v", err)
	}
	if byID.ID != sc.ID || byAlias.ID != sc.ID {
		t.Errorf("lookups disagree: %q / %q / %q", sc.ID, byID.ID, byAlias.ID)
	}

	if _, err := s.Get("no-such-scope"); err == nil {
		t.Error("Get on a missing scope should fail")
	}
}

func TestAddRejectsBadTitles(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(""); err == nil {
		t.Error("empty title should fail")
	}
	if _, err := s.Add(strings.Repeat("t", 501)); err == nil {
		t.Error("oversized title should fail")
	}
}

func TestAliasDeduplication(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add("Weekly review")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Add("Weekly review")
	if err != nil {
		t.Fatal(err)
	}
	third, err := s.Add("Weekly review")
	if err != nil {
		t.Fatal(err)
	}

	if first.Alias != "weekly-review" {
		t.Errorf("first alias = %q", first.Alias)
	}
	if second.Alias != "weekly-review-2" {
		t.Errorf("second alias = %q", second.Alias)
	}
	if third.Alias != "weekly-review-3" {
		t.Errorf("third alias = %q", third.Alias)
	}
}

func TestAddAlias(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add("Quarterly taxes")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddAlias(sc.ID, "taxes"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}

	got, err := s.Get("taxes")
	if err != nil {
		t.Fatalf("Get by extra alias: %v", err)
	}
	if got.ID != sc.ID {
		t.Errorf("alias resolves to %q, want %q", got.ID, sc.ID)
	}
	// Canonical alias is untouched by extra aliases.
	if got.Alias != "quarterly-taxes" {
		t.Errorf("canonical alias = %q, want %q", got.Alias, "quarterly-taxes")
	}

	if err := s.AddAlias(sc.ID, "Not A Slug"); err == nil {
		t.Error("non-slug alias should fail")
	}
	other, err := s.Add("Other")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddAlias(other.ID, "taxes"); err == nil {
		t.Error("taken alias should fail")
	}
}

func TestSetStatus(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add("Fix the fence")
	if err != nil {
		t.Fatal(err)
	}
	updated, err := s.SetStatus(sc.Alias, StatusStarted)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != StatusStarted {
		t.Errorf("Status = %q, want %q", updated.Status, StatusStarted)
	}

	if _, err := s.SetStatus(sc.ID, Status("paused")); err == nil {
		t.Error("unknown status should fail")
	}
}

func TestSetAndLoadAspects(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add("Paint the shed")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetAspect(sc.ID, "priority", []string{"5"}); err != nil {
		t.Fatalf("SetAspect: %v", err)
	}
	if err := s.SetAspect(sc.ID, "tag", []string{"home", "outdoor"}); err != nil {
		t.Fatalf("SetAspect multi: %v", err)
	}

	aspects, err := s.Aspects(sc.ID)
	if err != nil {
		t.Fatalf("Aspects: %v", err)
	}
	if len(aspects) != 2 {
		t.Fatalf("got %d aspect keys, want 2", len(aspects))
	}

	tag, _ := aspect.NewKey("tag")
	if got := len(aspects[tag]); got != 2 {
		t.Errorf("tag has %d values, want 2", got)
	}

	// Replacement semantics: setting again discards prior values.
	if err := s.SetAspect(sc.ID, "tag", []string{"garden"}); err != nil {
		t.Fatal(err)
	}
	aspects, err = s.Aspects(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := aspects[tag]; len(got) != 1 || got[0].String() != "garden" {
		t.Errorf("tag after replace = %v", got)
	}

	if err := s.SetAspect(sc.ID, "9bad", []string{"x"}); err == nil {
		t.Error("invalid key should fail")
	}
	if err := s.SetAspect(sc.ID, "empty", nil); err == nil {
		t.Error("aspect without values should fail")
	}
}

func TestRemoveAspect(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add("Trim hedges")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetAspect(sc.ID, "season", []string{"summer"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveAspect(sc.ID, "season"); err != nil {
		t.Fatalf("RemoveAspect: %v", err)
	}
	if err := s.RemoveAspect(sc.ID, "season"); err == nil {
		t.Error("removing an absent aspect should fail")
	}
}

func TestAspectDefinitionEnforcement(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add("Sort the basement")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DefineAspect("effort", aspect.TypeNumeric, nil); err != nil {
		t.Fatalf("DefineAspect: %v", err)
	}
	if err := s.DefineAspect("priority", aspect.TypeOrdered, []string{"low", "mid", "high"}); err != nil {
		t.Fatalf("DefineAspect ordered: %v", err)
	}

	if err := s.SetAspect(sc.ID, "effort", []string{"3.5"}); err != nil {
		t.Errorf("numeric value rejected: %v", err)
	}
	if err := s.SetAspect(sc.ID, "effort", []string{"huge"}); err == nil {
		t.Error("non-numeric value for a numeric aspect should fail")
	}
	if err := s.SetAspect(sc.ID, "priority", []string{"mid"}); err != nil {
		t.Errorf("allowed ordered value rejected: %v", err)
	}
	if err := s.SetAspect(sc.ID, "priority", []string{"urgent"}); err == nil {
		t.Error("out-of-set ordered value should fail")
	}

	// Undefined keys stay free-form.
	if err := s.SetAspect(sc.ID, "note", []string{"anything goes"}); err != nil {
		t.Errorf("undefined aspect rejected: %v", err)
	}

	def, ok, err := s.GetDefinition("priority")
	if err != nil || !ok {
		t.Fatalf("GetDefinition: ok=%v err=%v", ok, err)
	}
	if def.Type != aspect.TypeOrdered || len(def.AllowedValues) != 3 {
		t.Errorf("definition = %+v", def)
	}
	if _, ok, _ := s.GetDefinition("nothing"); ok {
		t.Error("GetDefinition on an undefined key should report absent")
	}
}

func TestQuery(t *testing.T) {
	s := newTestStore(t)

	groceries, err := s.Add("Buy groceries")
	if err != nil {
		t.Fatal(err)
	}
	taxes, err := s.Add("File taxes")
	if err != nil {
		t.Fatal(err)
	}
	fence, err := s.Add("Fix fence")
	if err != nil {
		t.Fatal(err)
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.SetAspect(groceries.ID, "status", []string{"done"}))
	must(s.SetAspect(groceries.ID, "priority", []string{"2"}))
	must(s.SetAspect(taxes.ID, "status", []string{"active"}))
	must(s.SetAspect(taxes.ID, "priority", []string{"9"}))
	must(s.SetAspect(taxes.ID, "tag", []string{"money", "deadline"}))
	must(s.SetAspect(fence.ID, "status", []string{"active"}))
	must(s.SetAspect(fence.ID, "priority", []string{"4"}))

	tests := []struct {
		filter string
		want   []string
	}{
		{`"priority" > "5" AND NOT "status" = "done"`, []string{taxes.ID}},
		{`status = "active"`, []string{taxes.ID, fence.ID}},
		{`status = "active" AND priority < 5`, []string{fence.ID}},
		{`tag = "money" OR priority <= 2`, []string{groceries.ID, taxes.ID}},
		{`tag != "money"`, nil}, // groceries/fence lack tag: absence is false
		{`status = "archived"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got, err := s.Query(tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			gotIDs := make(map[string]bool, len(got))
			for _, sc := range got {
				gotIDs[sc.ID] = true
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Query(%q) returned %d scopes, want %d", tt.filter, len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if !gotIDs[id] {
					t.Errorf("Query(%q) missing scope %s", tt.filter, id)
				}
			}
		})
	}

	_, err = s.Query(`status =`)
	if err == nil {
		t.Fatal("malformed filter should surface a compile error")
	}
	var synErr *filter.SyntaxError
	if !errors.As(err, &synErr) {
		t.Errorf("error type = %T, want *filter.SyntaxError", err)
	}
}
