package domain

import "github.com/m04kA/SMC-CarWashService/pkg/types"

// DayPart groups public listing slots
type DayPart string

const (
	DayPartMorning   DayPart = "morning"
	DayPartAfternoon DayPart = "afternoon"
	DayPartEvening   DayPart = "evening"
	DayPartNight     DayPart = "night"
)

// DayParts in display order
var DayParts = []DayPart{DayPartMorning, DayPartAfternoon, DayPartEvening, DayPartNight}

// SlotMark is a slot start time produced by a slot source.
// DayPart is empty for sources that do not group their slots.
type SlotMark struct {
	Time    types.TimeString
	DayPart DayPart
}

// SlotCapacity is the capacity breakdown of one (date, time) slot
type SlotCapacity struct {
	TotalStaff     int
	Unavailable    int
	EffectiveStaff int
	Booked         int
	AvailableStaff int
}

// HasRoom reports whether one more booking fits
func (c SlotCapacity) HasRoom() bool {
	return c.Booked < c.EffectiveStaff
}

// UnavailableCount sums the staff removed at slot t by the given entries
func UnavailableCount(entries []*StaffUnavailability, t types.TimeString) int {
	total := 0
	for _, u := range entries {
		if u.Covers(t) {
			total += u.UnavailableCount
		}
	}
	return total
}

// ComputeSlotCapacity applies the capacity formula, clamping every step at zero
func ComputeSlotCapacity(totalStaff int, entries []*StaffUnavailability, t types.TimeString, booked int) SlotCapacity {
	unavailable := UnavailableCount(entries, t)
	effective := max(0, totalStaff-unavailable)
	return SlotCapacity{
		TotalStaff:     totalStaff,
		Unavailable:    unavailable,
		EffectiveStaff: effective,
		Booked:         booked,
		AvailableStaff: max(0, effective-booked),
	}
}

// SlotAvailability is one entry of the public listing
type SlotAvailability struct {
	Time       types.TimeString
	Display    string
	Available  bool
	StaffCount int
}

// DayAvailability is the public listing for one date
type DayAvailability struct {
	Slots map[DayPart][]SlotAvailability
}
