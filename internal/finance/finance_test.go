package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/touchline/internal/model"
)

func testClub() model.Club {
	return model.Club{
		Name:            "Test FC",
		Reputation:      25,
		StadiumCapacity: 20000,
		TicketPrice:     decimal.NewFromInt(30),
		Squad: []model.Player{
			{ID: "a", Wage: decimal.NewFromInt(1000)},
			{ID: "b", Wage: decimal.NewFromInt(1500)},
		},
		Staff: []model.StaffMember{
			{Name: "Coach", Role: "coach", Quality: 75, Wage: decimal.NewFromInt(500)},
			{Name: "Deals", Role: "commercial", Quality: 100, Wage: decimal.NewFromInt(300)},
		},
		Sponsors: []model.Sponsor{
			{Name: "Kit", PerMatch: decimal.NewFromInt(2000), WinBonus: decimal.NewFromInt(1000), RemainingMatches: 1},
			{Name: "Drinks", PerMatch: decimal.NewFromInt(800)},
		},
	}
}

func TestAttendance(t *testing.T) {
	club := testClub()
	if got := Attendance(club); got != 11000 {
		t.Fatalf("expected 11000, got %d", got)
	}
	club.Reputation = 100
	club.Season.Form = []string{"W", "W", "W", "W", "W"}
	if got := Attendance(club); got != 19000 {
		t.Fatalf("expected 19000, got %d", got)
	}
	club.Season.Form = append(club.Season.Form, "W", "W")
	club.Reputation = 150
	if got := Attendance(club); got != 20000 {
		t.Fatalf("expected a full stadium, got %d", got)
	}
	club.Reputation = -100
	club.Season.Form = nil
	if got := Attendance(club); got != 5000 {
		t.Fatalf("expected the floor, got %d", got)
	}
}

func TestCalculateHomeWin(t *testing.T) {
	club := testClub()
	res := model.MatchResult{Home: true, GoalsFor: 2, GoalsAgainst: 0}
	rep := New(DefaultRates()).Calculate(club, res)

	if rep.Attendance != 11000 {
		t.Fatalf("unexpected attendance %d", rep.Attendance)
	}
	if !rep.Net.Equal(rep.Income.Sub(rep.Expenses)) {
		t.Fatalf("net does not balance")
	}
	gate := findItem(rep.IncomeBreakdown, "Gate receipts")
	if !gate.Equal(decimal.NewFromInt(330000)) {
		t.Fatalf("unexpected gate %s", gate)
	}
	if bonus := findItem(rep.IncomeBreakdown, "Win bonus: Kit"); !bonus.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected win bonus, got %s", bonus)
	}
	if len(rep.UpdatedSponsors) != 1 || rep.UpdatedSponsors[0].Name != "Drinks" {
		t.Fatalf("expected the expired deal dropped, got %+v", rep.UpdatedSponsors)
	}
	if len(club.Sponsors) != 2 || club.Sponsors[0].RemainingMatches != 1 {
		t.Fatalf("input sponsors were modified")
	}
	if rep.StaffImpact == nil || rep.StaffImpact.MoraleDelta != 0.5 {
		t.Fatalf("unexpected staff impact %+v", rep.StaffImpact)
	}
	if !rep.StaffImpact.BudgetDelta.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected commercial delta %s", rep.StaffImpact.BudgetDelta)
	}
}

func TestCalculateAwayLoss(t *testing.T) {
	club := testClub()
	club.Staff = nil
	rep := New(DefaultRates()).Calculate(club, model.MatchResult{GoalsAgainst: 1})
	if rep.Attendance != 0 {
		t.Fatalf("away games have no gate")
	}
	if travel := findItem(rep.ExpenseBreakdown, "Travel"); !travel.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("expected travel cost, got %s", travel)
	}
	if prize := findItem(rep.IncomeBreakdown, "Win prize"); !prize.IsZero() {
		t.Fatalf("no prize money for a defeat")
	}
	if rep.StaffImpact != nil {
		t.Fatalf("expected no staff impact without staff")
	}
	wages := findItem(rep.ExpenseBreakdown, "Player wages")
	if !wages.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("unexpected wages %s", wages)
	}
}

func findItem(items []model.LineItem, label string) decimal.Decimal {
	for _, it := range items {
		if it.Label == label {
			return it.Amount
		}
	}
	return decimal.Zero
}
