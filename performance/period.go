// Package performance implements §4.I: the time-weighted return
// evaluator over a named or custom period. The sub-period partition-and-
// fold shape is grounded on tsiemens-acb/portfolio/cumulative_gains.go's
// CalcSecurityCumulativeCapitalGains/CalcCumulativeCapitalGains pair
// (fold per-entity, then fold-of-folds across entities, bucketed by
// year) — generalized here from "bucket realized gains by calendar
// year" to "bucket simple returns by cash-flow-delimited sub-period".
package performance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/b3ledger/core/bizdate"
)

// ParsePeriod resolves the §4.I period vocabulary (MTD, QTD, YTD, 1Y,
// ALL, a calendar year "YYYY", or "from:to" with each endpoint
// "YYYY[-MM[-DD]]", missing precision defaulting start to the first day
// and end to the last day) into a concrete [start, end] range, relative
// to today and the ledger's earliest known date (used for ALL).
func ParsePeriod(period string, today, earliest bizdate.Date) (bizdate.Date, bizdate.Date, error) {
	switch period {
	case "MTD":
		return bizdate.FirstOfMonth(today.Year(), today.Month()), today, nil
	case "QTD":
		return firstOfQuarter(today), today, nil
	case "YTD":
		return bizdate.New(today.Year(), time.January, 1), today, nil
	case "1Y":
		return today.AddDays(-365), today, nil
	case "ALL":
		return earliest, today, nil
	}

	if strings.Contains(period, ":") {
		parts := strings.SplitN(period, ":", 2)
		if len(parts) != 2 {
			return bizdate.Date{}, bizdate.Date{}, fmt.Errorf("performance: malformed custom period %q", period)
		}
		start, err := parsePartial(parts[0], false)
		if err != nil {
			return bizdate.Date{}, bizdate.Date{}, err
		}
		end, err := parsePartial(parts[1], true)
		if err != nil {
			return bizdate.Date{}, bizdate.Date{}, err
		}
		return start, end, nil
	}

	if year, err := strconv.Atoi(period); err == nil && len(period) == 4 {
		return bizdate.New(year, time.January, 1), bizdate.LastOfMonth(year, time.December), nil
	}

	return bizdate.Date{}, bizdate.Date{}, fmt.Errorf("performance: unsupported period %q", period)
}

func firstOfQuarter(d bizdate.Date) bizdate.Date {
	q := (int(d.Month()) - 1) / 3
	return bizdate.New(d.Year(), time.Month(q*3+1), 1)
}

// parsePartial parses "YYYY", "YYYY-MM", or "YYYY-MM-DD". endOfRange
// selects whether missing precision defaults to the first or last day.
func parsePartial(s string, endOfRange bool) (bizdate.Date, error) {
	parts := strings.Split(s, "-")
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return bizdate.Date{}, fmt.Errorf("performance: invalid year in %q: %w", s, err)
	}
	if len(parts) == 1 {
		if endOfRange {
			return bizdate.LastOfMonth(year, time.December), nil
		}
		return bizdate.New(year, time.January, 1), nil
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return bizdate.Date{}, fmt.Errorf("performance: invalid month in %q", s)
	}
	if len(parts) == 2 {
		if endOfRange {
			return bizdate.LastOfMonth(year, time.Month(month)), nil
		}
		return bizdate.FirstOfMonth(year, time.Month(month)), nil
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return bizdate.Date{}, fmt.Errorf("performance: invalid day in %q", s)
	}
	return bizdate.New(year, time.Month(month), day), nil
}
