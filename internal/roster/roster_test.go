package roster

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/touchline/internal/model"
)

const tomlRoster = `
name = "Harbour Town"
budget = 250000
reputation = 12.5
stadium-capacity = 15000
ticket-price = "22.50"

[[players]]
id = "gk1"
name = "Sam Keeper"
age = 29
position = "goalkeeper"
wage = 1200
[players.attributes]
defending = 78
passing = 55
stamina = 120

[[players]]
name = "Lee Striker"
position = "FWD"
[players.attributes]
shooting = 81

[[sponsors]]
name = "Kit Co"
per-match = 3000
remaining-matches = 10
`

const yamlRoster = `
id: club-1
name: Hill Rovers
budget: "120000"
players:
  - id: a
    name: Ana Mid
    position: mid
    fitness: 80
    attributes:
      passing: 77
  - id: b
    name: Bo Def
    position: Defender
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	club, err := Load(writeFile(t, "club.toml", tomlRoster))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if club.ID == "" || club.Name != "Harbour Town" {
		t.Fatalf("unexpected club header %q %q", club.ID, club.Name)
	}
	if !club.Budget.Equal(decimal.NewFromInt(250000)) || !club.TicketPrice.Equal(decimal.RequireFromString("22.5")) {
		t.Fatalf("unexpected money %s %s", club.Budget, club.TicketPrice)
	}
	if len(club.Squad) != 2 {
		t.Fatalf("expected 2 players, got %d", len(club.Squad))
	}
	gk := club.Squad[0]
	if gk.Position != model.Goalkeeper || gk.Attributes.Stamina != 99 || gk.Fitness != 100 {
		t.Fatalf("unexpected keeper %+v", gk)
	}
	if club.Squad[1].ID != "p02" || club.Squad[1].Position != model.Forward {
		t.Fatalf("unexpected defaults %+v", club.Squad[1])
	}
	if len(club.Sponsors) != 1 || club.Sponsors[0].RemainingMatches != 10 {
		t.Fatalf("unexpected sponsors %+v", club.Sponsors)
	}
}

func TestLoadYAML(t *testing.T) {
	club, err := Load(writeFile(t, "club.yaml", yamlRoster))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if club.ID != "club-1" || !club.Budget.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("unexpected club %q %s", club.ID, club.Budget)
	}
	if club.Squad[0].Position != model.Midfielder || club.Squad[0].Fitness != 80 || club.Squad[0].Attributes.Passing != 77 {
		t.Fatalf("unexpected player %+v", club.Squad[0])
	}
	if club.Squad[1].Position != model.Defender {
		t.Fatalf("unexpected position %s", club.Squad[1].Position)
	}
}

func TestLoadRejectsBadRosters(t *testing.T) {
	cases := map[string]string{
		"empty.toml":  "name = \"x\"\n",
		"badpos.yaml": "name: x\nplayers:\n  - id: a\n    position: sweeper\n",
		"dup.yaml":    "name: x\nplayers:\n  - id: a\n    position: gk\n  - id: a\n    position: gk\n",
		"noname.yaml": "players:\n  - id: a\n    position: gk\n",
		"roster.csv":  "id,name\n",
		"broken.toml": "name = \n",
	}
	for name, content := range cases {
		if _, err := Load(writeFile(t, name, content)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestGenerate(t *testing.T) {
	a, err := Generate("Seeded FC", "alpha")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate("Seeded FC", "alpha")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a.Squad) != 22 {
		t.Fatalf("expected 22 players, got %d", len(a.Squad))
	}
	if !reflect.DeepEqual(a.Squad, b.Squad) {
		t.Fatalf("expected the same squad for the same seed")
	}
	if a.ID == b.ID {
		t.Fatalf("expected fresh club ids")
	}
	counts := map[model.Position]int{}
	for _, p := range a.Squad {
		counts[p.Position]++
		attrs := []int{p.Attributes.Pace, p.Attributes.Stamina, p.Attributes.Passing, p.Attributes.Shooting, p.Attributes.Defending}
		for _, v := range attrs {
			if v < 0 || v > 99 {
				t.Fatalf("attribute out of range for %s", p.ID)
			}
		}
	}
	if counts[model.Goalkeeper] != 2 || counts[model.Defender] != 7 || counts[model.Midfielder] != 7 || counts[model.Forward] != 6 {
		t.Fatalf("unexpected squad shape %v", counts)
	}
}

func TestFilter(t *testing.T) {
	players := []model.Player{
		{ID: "a", Position: model.Goalkeeper},
		{ID: "b", Position: model.Goalkeeper, Availability: model.Availability{InjuryMatches: 1}},
		{ID: "c", Position: model.Forward},
	}
	got := Filter(players, ByPosition(model.Goalkeeper), Available)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected filter result %+v", got)
	}
	if _, ok := ParsePosition("sweeper"); ok {
		t.Fatalf("expected sweeper to be rejected")
	}
}
