package roster

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/rng"
)

var firstNames = []string{
	"Alex", "Ben", "Carlos", "Dani", "Emil", "Femi", "Gio", "Hugo", "Ivan", "Jonas",
	"Kai", "Luca", "Marco", "Nico", "Oskar", "Pablo", "Rafa", "Sami", "Theo", "Yusuf",
}

var lastNames = []string{
	"Almeida", "Brandt", "Costa", "Dunne", "Eriksen", "Fofana", "Garcia", "Hughes",
	"Ivanov", "Jansen", "Kovac", "Lindqvist", "Moreau", "Novak", "Okafor", "Petrov",
	"Quinn", "Rossi", "Silva", "Toure", "Varga", "Weber",
}

// squadShape is the generated squad: 2 GK, 7 DEF, 7 MID, 6 FWD.
var squadShape = []struct {
	pos   model.Position
	count int
}{
	{model.Goalkeeper, 2},
	{model.Defender, 7},
	{model.Midfielder, 7},
	{model.Forward, 6},
}

// Generate builds a playable club from a seed. The same seed gives the same
// squad; the club id is always fresh.
func Generate(name, seed string) (model.Club, error) {
	id, err := gonanoid.New()
	if err != nil {
		return model.Club{}, fmt.Errorf("failed to generate club id: %w", err)
	}
	src := rng.FromSeed(seed)
	club := model.Club{
		ID:              id,
		Name:            name,
		Budget:          decimal.NewFromInt(int64(rng.Between(src, 5, 20)) * 100000),
		Reputation:      float64(rng.Between(src, -10, 30)),
		StadiumCapacity: rng.Between(src, 12, 40) * 1000,
		TicketPrice:     decimal.NewFromInt(int64(rng.Between(src, 18, 40))),
		Staff: []model.StaffMember{
			{Name: "Head Coach", Role: "coach", Quality: rng.Between(src, 40, 80), Wage: decimal.NewFromInt(3000)},
			{Name: "Physio", Role: "physio", Quality: rng.Between(src, 40, 80), Wage: decimal.NewFromInt(1200)},
			{Name: "Commercial Lead", Role: "commercial", Quality: rng.Between(src, 30, 70), Wage: decimal.NewFromInt(1500)},
		},
		Sponsors: []model.Sponsor{
			{Name: "Shirt Partner", PerMatch: decimal.NewFromInt(6000), WinBonus: decimal.NewFromInt(2000), RemainingMatches: 20},
			{Name: "Local Brewery", PerMatch: decimal.NewFromInt(1500)},
		},
	}

	n := 0
	for _, shape := range squadShape {
		for i := 0; i < shape.count; i++ {
			n++
			club.Squad = append(club.Squad, generatePlayer(src, n, shape.pos))
		}
	}
	return club, nil
}

func generatePlayer(src rng.Source, n int, pos model.Position) model.Player {
	base := func(lo, hi int) int { return rng.Between(src, lo, hi) }
	a := model.Attributes{
		Pace:       base(45, 80),
		Stamina:    base(50, 85),
		Dribbling:  base(40, 75),
		Passing:    base(45, 80),
		Shooting:   base(30, 70),
		Defending:  base(30, 70),
		Leadership: base(35, 80),
		Potential:  base(50, 95),
	}
	switch pos {
	case model.Goalkeeper:
		a.Defending = base(60, 85)
		a.Shooting = base(15, 35)
		a.Dribbling = base(20, 45)
	case model.Defender:
		a.Defending = base(60, 85)
		a.Shooting = base(25, 55)
	case model.Midfielder:
		a.Passing = base(60, 88)
		a.Dribbling = base(55, 85)
	case model.Forward:
		a.Shooting = base(62, 90)
		a.Pace = base(60, 90)
		a.Defending = base(20, 45)
	}
	first := firstNames[rng.Intn(src, len(firstNames))]
	last := lastNames[rng.Intn(src, len(lastNames))]
	return model.Player{
		ID:         fmt.Sprintf("p%02d", n),
		Name:       first + " " + last,
		Age:        base(18, 34),
		Position:   pos,
		Attributes: a,
		Morale:     float64(base(30, 70)),
		Fitness:    100,
		Wage:       decimal.NewFromInt(int64(base(8, 40)) * 100),
	}
}
