// Package finance computes match-day income and expenses.
package finance

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/touchline/internal/model"
)

// Rates are the fixed money amounts used by the calculator.
type Rates struct {
	TicketPrice      decimal.Decimal
	Broadcast        decimal.Decimal
	Merchandise      decimal.Decimal
	WinPrize         decimal.Decimal
	DrawPrize        decimal.Decimal
	OperationsBase   decimal.Decimal
	OperationsPerFan decimal.Decimal
	Travel           decimal.Decimal
}

// DefaultRates returns the rates used when none are configured.
func DefaultRates() Rates {
	return Rates{
		TicketPrice:      decimal.NewFromInt(25),
		Broadcast:        decimal.NewFromInt(40000),
		Merchandise:      decimal.NewFromInt(5000),
		WinPrize:         decimal.NewFromInt(15000),
		DrawPrize:        decimal.NewFromInt(5000),
		OperationsBase:   decimal.NewFromInt(4000),
		OperationsPerFan: decimal.RequireFromString("1.5"),
		Travel:           decimal.NewFromInt(6000),
	}
}

// Calculator produces a FinanceReport for a played match.
type Calculator struct {
	rates Rates
}

// New returns a calculator with the given rates.
func New(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Attendance estimates the home crowd from capacity, reputation and form.
func Attendance(club model.Club) int {
	if club.StadiumCapacity <= 0 {
		return 0
	}
	fill := 0.45 + club.Reputation/250 + formBonus(club.Season.Form)
	fill = min(1, max(0.25, fill))
	return int(math.Round(float64(club.StadiumCapacity) * fill))
}

func formBonus(form []string) float64 {
	bonus := 0.0
	for _, r := range form {
		switch r {
		case "W":
			bonus += 0.02
		case "L":
			bonus -= 0.02
		}
	}
	return bonus
}

// Calculate implements the match-day finance contract. Money is rounded to
// cents; Net is Income minus Expenses.
func (c *Calculator) Calculate(club model.Club, result model.MatchResult) model.FinanceReport {
	var rep model.FinanceReport
	won := result.Outcome() == "W"

	if result.Home {
		rep.Attendance = Attendance(club)
		price := club.TicketPrice
		if !price.IsPositive() {
			price = c.rates.TicketPrice
		}
		rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Gate receipts", price.Mul(decimal.NewFromInt(int64(rep.Attendance)))))
		rep.Notes = append(rep.Notes, fmt.Sprintf("A crowd of %d watched the match.", rep.Attendance))
	}

	merch := c.rates.Merchandise.Mul(decimal.NewFromFloat(1 + club.Reputation/100))
	if won {
		merch = merch.Mul(decimal.RequireFromString("1.1"))
	}
	if merch.IsPositive() {
		rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Merchandise", merch))
	}
	rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Broadcast share", c.rates.Broadcast))
	switch result.Outcome() {
	case "W":
		rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Win prize", c.rates.WinPrize))
	case "D":
		rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Draw prize", c.rates.DrawPrize))
	}

	for _, s := range club.Sponsors {
		rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Sponsor: "+s.Name, s.PerMatch))
		if won && s.WinBonus.IsPositive() {
			rep.IncomeBreakdown = append(rep.IncomeBreakdown, item("Win bonus: "+s.Name, s.WinBonus))
			rep.Notes = append(rep.Notes, fmt.Sprintf("%s paid a win bonus.", s.Name))
		}
	}
	rep.UpdatedSponsors = c.advanceSponsors(club.Sponsors, &rep)

	wages := decimal.Zero
	for _, p := range club.Squad {
		wages = wages.Add(p.Wage)
	}
	rep.ExpenseBreakdown = append(rep.ExpenseBreakdown, item("Player wages", wages))
	staffWages := decimal.Zero
	for _, s := range club.Staff {
		staffWages = staffWages.Add(s.Wage)
	}
	if len(club.Staff) > 0 {
		rep.ExpenseBreakdown = append(rep.ExpenseBreakdown, item("Staff wages", staffWages))
	}
	if result.Home {
		ops := c.rates.OperationsBase.Add(c.rates.OperationsPerFan.Mul(decimal.NewFromInt(int64(rep.Attendance))))
		rep.ExpenseBreakdown = append(rep.ExpenseBreakdown, item("Match-day operations", ops))
	} else {
		rep.ExpenseBreakdown = append(rep.ExpenseBreakdown, item("Travel", c.rates.Travel))
	}

	rep.Income = sum(rep.IncomeBreakdown)
	rep.Expenses = sum(rep.ExpenseBreakdown)
	rep.Net = rep.Income.Sub(rep.Expenses)
	rep.StaffImpact = staffImpact(club.Staff, result)
	return rep
}

func (c *Calculator) advanceSponsors(sponsors []model.Sponsor, rep *model.FinanceReport) []model.Sponsor {
	out := make([]model.Sponsor, 0, len(sponsors))
	for _, s := range sponsors {
		if s.RemainingMatches > 0 {
			s.RemainingMatches--
			if s.RemainingMatches == 0 {
				rep.Notes = append(rep.Notes, fmt.Sprintf("The %s deal has run out.", s.Name))
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// staffImpact folds staff quality into small side effects. Quality 50 is
// neutral.
func staffImpact(staff []model.StaffMember, result model.MatchResult) *model.StaffImpact {
	if len(staff) == 0 {
		return nil
	}
	impact := &model.StaffImpact{BudgetDelta: decimal.Zero}
	for _, s := range staff {
		edge := float64(s.Quality-50) / 50
		switch strings.ToLower(s.Role) {
		case "coach", "assistant":
			impact.MoraleDelta += edge
			if result.Outcome() == "L" && edge > 0 {
				impact.Notes = append(impact.Notes, fmt.Sprintf("%s lifted the dressing room after the defeat.", s.Name))
			}
		case "press", "media":
			impact.ReputationDelta += edge * 0.5
		case "commercial":
			impact.BudgetDelta = impact.BudgetDelta.Add(decimal.NewFromFloat(edge * 2000).Round(2))
			if edge > 0 {
				impact.Notes = append(impact.Notes, fmt.Sprintf("%s brought in extra commercial income.", s.Name))
			}
		case "physio":
			if result.Statistics.Injuries.For > 0 {
				impact.Notes = append(impact.Notes, fmt.Sprintf("%s is assessing the injured players.", s.Name))
			}
		}
	}
	return impact
}

func item(label string, amount decimal.Decimal) model.LineItem {
	return model.LineItem{Label: label, Amount: amount.Round(2)}
}

func sum(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
