package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtrasFromLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   ExtrasFlags
	}{
		{
			name:   "empty set",
			labels: nil,
			want:   ExtrasFlags{},
		},
		{
			name:   "bar and projector",
			labels: []string{ExtraBar, ExtraProjector},
			want:   ExtrasFlags{Bar: true, Projector: true},
		},
		{
			name:   "order does not matter",
			labels: []string{ExtraProjector, ExtraBar},
			want:   ExtrasFlags{Bar: true, Projector: true},
		},
		{
			name:   "duplicates do not matter",
			labels: []string{ExtraBar, ExtraBar, ExtraBar},
			want:   ExtrasFlags{Bar: true},
		},
		{
			name:   "unknown labels ignored",
			labels: []string{"Sauna", ExtraWC, "bar"},
			want:   ExtrasFlags{WC: true},
		},
		{
			name: "full vocabulary",
			labels: []string{
				ExtraBar, ExtraKitchen, ExtraWC, ExtraMicrophone,
				ExtraLaserPointer, ExtraProjector, ExtraSeating,
				ExtraFoldingTables, ExtraStandingTables, ExtraStageLighting,
				ExtraLightingConsole, ExtraPartitionElements, ExtraPlatesAndCutlery,
			},
			want: ExtrasFlags{
				Bar: true, Kitchen: true, WC: true, Microphone: true,
				LaserPointer: true, Projector: true, Seating: true,
				FoldingTables: true, StandingTables: true, StageLighting: true,
				LightingConsole: true, PartitionElements: true, PlatesAndCutlery: true,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtrasFromLabels(tc.labels))
		})
	}
}

func TestExtrasArgsColumnOrder(t *testing.T) {
	f := ExtrasFlags{Bar: true, PlatesAndCutlery: true}
	args := f.Args()
	require.Len(t, args, 13)
	assert.Equal(t, true, args[0], "bar is the first column")
	assert.Equal(t, true, args[12], "plates_and_cutlery is the last column")
	for i := 1; i < 12; i++ {
		assert.Equal(t, false, args[i])
	}
}

func TestFormatDateTime(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2025-02-09T07:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-09 07:30:00", FormatDateTime(ts))

	// Non-UTC inputs are normalized to the UTC wall clock first.
	berlin := time.FixedZone("CET", 3600)
	local := time.Date(2025, 2, 9, 7, 30, 0, 0, berlin)
	assert.Equal(t, "2025-02-09 06:30:00", FormatDateTime(local))
}

func TestParseDateTimeRoundTrip(t *testing.T) {
	ts, err := ParseDateTime("2025-02-09 07:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-09 07:30:00", FormatDateTime(ts))
	assert.Equal(t, time.UTC, ts.Location())
}
