package model

import "time"

// DateTimeLayout is the canonical DATETIME text form used by the storage
// engine: wall-clock fields, no timezone suffix.
const DateTimeLayout = "2006-01-02 15:04:05"

// FormatDateTime serializes t for a DATETIME column.  Timestamps are
// normalized to UTC first so the stored wall clock is unambiguous (the
// connection also runs with loc=UTC).
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// ParseDateTime parses a DATETIME string back into a UTC time.Time.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.UTC)
}

// Extras vocabulary.  Each label corresponds to exactly one boolean column
// on the reservations table.
const (
	ExtraBar               = "Bar"
	ExtraKitchen           = "Kitchen"
	ExtraWC                = "WC"
	ExtraMicrophone        = "Microphone"
	ExtraLaserPointer      = "LaserPointer"
	ExtraProjector         = "Projector"
	ExtraSeating           = "Seating"
	ExtraFoldingTables     = "FoldingTables"
	ExtraStandingTables    = "StandingTables"
	ExtraStageLighting     = "StageLighting"
	ExtraLightingConsole   = "LightingConsole"
	ExtraPartitionElements = "PartitionElements"
	ExtraPlatesAndCutlery  = "PlatesAndCutlery"
)

// ExtrasFlags holds the 13 equipment flags of a reservation row, one per
// vocabulary label, in column order.  The json tags match the column names
// so list responses expose the flags flat, the way the legacy API did.
type ExtrasFlags struct {
	Bar               bool `json:"bar"`
	Kitchen           bool `json:"kitchen"`
	WC                bool `json:"wc"`
	Microphone        bool `json:"microphone"`
	LaserPointer      bool `json:"laser_pointer"`
	Projector         bool `json:"projector"`
	Seating           bool `json:"seating"`
	FoldingTables     bool `json:"folding_tables"`
	StandingTables    bool `json:"standing_tables"`
	StageLighting     bool `json:"stage_lighting"`
	LightingConsole   bool `json:"lighting_console"`
	PartitionElements bool `json:"partition_elements"`
	PlatesAndCutlery  bool `json:"plates_and_cutlery"`
}

// ExtrasFromLabels projects a label list onto the flag set.  A flag is set
// iff its label is present; ordering and duplicates do not matter and
// unknown labels are ignored.
func ExtrasFromLabels(labels []string) ExtrasFlags {
	var f ExtrasFlags
	for _, l := range labels {
		switch l {
		case ExtraBar:
			f.Bar = true
		case ExtraKitchen:
			f.Kitchen = true
		case ExtraWC:
			f.WC = true
		case ExtraMicrophone:
			f.Microphone = true
		case ExtraLaserPointer:
			f.LaserPointer = true
		case ExtraProjector:
			f.Projector = true
		case ExtraSeating:
			f.Seating = true
		case ExtraFoldingTables:
			f.FoldingTables = true
		case ExtraStandingTables:
			f.StandingTables = true
		case ExtraStageLighting:
			f.StageLighting = true
		case ExtraLightingConsole:
			f.LightingConsole = true
		case ExtraPartitionElements:
			f.PartitionElements = true
		case ExtraPlatesAndCutlery:
			f.PlatesAndCutlery = true
		}
	}
	return f
}

// Args returns the flags as insert arguments in column order:
// bar, kitchen, wc, microphone, laser_pointer, projector, seating,
// folding_tables, standing_tables, stage_lighting, lighting_console,
// partition_elements, plates_and_cutlery.
func (f ExtrasFlags) Args() []any {
	return []any{
		f.Bar, f.Kitchen, f.WC, f.Microphone, f.LaserPointer, f.Projector,
		f.Seating, f.FoldingTables, f.StandingTables, f.StageLighting,
		f.LightingConsole, f.PartitionElements, f.PlatesAndCutlery,
	}
}

// Reservation mirrors one occurrence row of the 'reservations' table.
// A recurring request produces several rows that differ only in their
// start/end timestamps.  Confirmed is tri-state: nil means pending,
// true accepted, false declined.
type Reservation struct {
	ID        uint64      // reservations.r_id
	UserID    uint64      // reservations.u_id
	HallID    uint64      // reservations.h_id
	Start     time.Time   // reservations.r_start_datetime
	End       time.Time   // reservations.r_end_datetime
	Purpose   string      // reservations.r_purpose
	Details   *string     // reservations.r_other_details (nullable)
	Confirmed *bool       // reservations.r_confirmed (nullable)
	Extras    ExtrasFlags // the 13 equipment flag columns
}
