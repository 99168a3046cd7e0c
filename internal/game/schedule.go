package game

import "time"

// NextDraw returns the draw date printed on a ticket bought at "from":
// one week out for weekly games, the same day next month for monthly ones.
// time.Date normalizes month-end overflow (Jan 31 -> Mar 3) the same way
// the date arithmetic in the ticket layouts always has.
func NextDraw(category string, from time.Time) time.Time {
	switch category {
	case CategoryWeekly:
		return from.AddDate(0, 0, 7)
	case CategoryMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from
	}
}
