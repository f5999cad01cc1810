// Package schedule computes inspection (ITV) and maintenance due dates per
// vehicle category. All computations are pure calendar arithmetic over a
// caller-supplied reference time; nothing here touches entity storage.
package schedule

import (
	"time"

	"fleet-rental/internal/models"
)

// MaintenanceDistanceKm is the distance since the last maintenance at which
// two-wheelers and heavy vehicles become due regardless of date.
const MaintenanceDistanceKm = 1000

// Policy carries the per-category scheduling rules. The set of policies is
// closed: one per vehicle category.
type Policy struct {
	NextInspection  func(matriculated, now time.Time) time.Time
	NextMaintenance func(matriculated, now time.Time) time.Time

	// maintenanceKm is the mileage trigger threshold, 0 when the category
	// has no mileage-based trigger.
	maintenanceKm int
}

var policies = map[models.VehicleCategory]Policy{
	models.CategoryLight: {
		NextInspection:  lightNextInspection,
		NextMaintenance: anniversaryNextMaintenance,
	},
	models.CategoryTwoWheeler: {
		NextInspection:  twoWheelerNextInspection,
		NextMaintenance: anniversaryNextMaintenance,
		maintenanceKm:   MaintenanceDistanceKm,
	},
	models.CategoryHeavy: {
		NextInspection:  heavyNextInspection,
		NextMaintenance: heavyNextMaintenance,
		maintenanceKm:   MaintenanceDistanceKm,
	},
}

// ForCategory returns the policy for a vehicle category.
func ForCategory(c models.VehicleCategory) (Policy, bool) {
	p, ok := policies[c]
	return p, ok
}

// NextInspection returns the next inspection date for a vehicle of the
// given category matriculated on the given date. Unknown categories return
// the zero time.
func NextInspection(c models.VehicleCategory, matriculated, now time.Time) time.Time {
	p, ok := policies[c]
	if !ok {
		return time.Time{}
	}
	return p.NextInspection(matriculated, now)
}

// NextMaintenance returns the next date-based maintenance due date.
func NextMaintenance(c models.VehicleCategory, matriculated, now time.Time) time.Time {
	p, ok := policies[c]
	if !ok {
		return time.Time{}
	}
	return p.NextMaintenance(matriculated, now)
}

// MaintenanceDueByDistance reports whether maintenance is mileage-triggered
// for the category. The date-based and mileage-based triggers are
// independent: either alone makes maintenance due.
func MaintenanceDueByDistance(c models.VehicleCategory, kmSinceLastMaintenance int) bool {
	p, ok := policies[c]
	if !ok || p.maintenanceKm == 0 {
		return false
	}
	return kmSinceLastMaintenance >= p.maintenanceKm
}

// lightNextInspection: first inspection at matriculation + 4 years, every
// 2 years until year 10 (exclusive), annual from year 10 onward. Anchors
// stay on the matriculation day/month.
func lightNextInspection(matriculated, now time.Time) time.Time {
	for offset := 4; ; offset++ {
		// Between year 4 and year 10 only even offsets are anchors.
		if offset > 4 && offset < 10 && (offset-4)%2 != 0 {
			continue
		}
		d := anniversary(matriculated, matriculated.Year()+offset)
		if d.After(now) {
			return d
		}
	}
}

// twoWheelerNextInspection: first inspection at matriculation + 5 years,
// then every 2 years.
func twoWheelerNextInspection(matriculated, now time.Time) time.Time {
	for offset := 5; ; offset += 2 {
		d := anniversary(matriculated, matriculated.Year()+offset)
		if d.After(now) {
			return d
		}
	}
}

// heavyNextInspection: annual anniversary until year 10 since
// matriculation, then every 6 months. Past year 10, if this year's
// anniversary is still ahead it stands; otherwise the anchor month shifts
// by six months, rolling into the next year when the matriculation month is
// in the second half.
func heavyNextInspection(matriculated, now time.Time) time.Time {
	years := now.Year() - matriculated.Year()
	if years < 10 {
		d := anniversary(matriculated, now.Year())
		if d.After(now) {
			return d
		}
		return anniversary(matriculated, now.Year()+1)
	}

	thisYear := anniversary(matriculated, now.Year())
	if thisYear.After(now) {
		return thisYear
	}
	// The shifted anchor is fixed by the matriculation month alone and is
	// not advanced past now: late in the year it can already have elapsed,
	// in which case the vehicle is overdue rather than rescheduled.
	if matriculated.Month() <= time.June {
		return clampedDate(now.Year(), matriculated.Month()+6, matriculated.Day())
	}
	return clampedDate(now.Year()+1, matriculated.Month()-6, matriculated.Day())
}

// anniversaryNextMaintenance: annual maintenance anchored to the
// matriculation day/month of the next calendar year.
func anniversaryNextMaintenance(matriculated, now time.Time) time.Time {
	return clampedDate(now.Year()+1, matriculated.Month(), matriculated.Day())
}

// heavyNextMaintenance: a fixed 60-day interval from now, not anchored to
// the matriculation date.
func heavyNextMaintenance(_, now time.Time) time.Time {
	return now.AddDate(0, 0, 60)
}

func anniversary(matriculated time.Time, year int) time.Time {
	return clampedDate(year, matriculated.Month(), matriculated.Day())
}

// clampedDate builds a date, clamping the day to the last valid day of the
// target month (a Feb 29 anchor lands on Feb 28 in non-leap years).
func clampedDate(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
