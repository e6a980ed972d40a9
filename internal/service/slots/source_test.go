package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CarWashService/internal/domain"
	"github.com/m04kA/SMC-CarWashService/pkg/types"
)

func TestFixedCatalog_IgnoresConfig(t *testing.T) {
	short := domain.DefaultStaffConfig()
	short.ServiceDurationMinutes = 15
	short.OperatingStartTime = "10:00"

	a := FixedCatalog{}.Slots(domain.DefaultStaffConfig())
	b := FixedCatalog{}.Slots(short)

	assert.Equal(t, a, b)
	assert.Len(t, a, 27)
	assert.Equal(t, domain.SlotMark{Time: "08:00", DayPart: domain.DayPartMorning}, a[0])
	assert.Equal(t, domain.SlotMark{Time: "21:00", DayPart: domain.DayPartNight}, a[len(a)-1])
}

func TestOperatingHours_StepsByDuration(t *testing.T) {
	cfg := domain.DefaultStaffConfig()
	cfg.OperatingStartTime = "08:00"
	cfg.OperatingEndTime = "11:00"
	cfg.ServiceDurationMinutes = 45

	marks := OperatingHours{}.Slots(cfg)

	got := make([]types.TimeString, 0, len(marks))
	for _, m := range marks {
		got = append(got, m.Time)
		assert.Empty(t, m.DayPart)
	}
	assert.Equal(t, []types.TimeString{"08:00", "08:45", "09:30", "10:15"}, got)
}

func TestOperatingHours_Defaults(t *testing.T) {
	marks := OperatingHours{}.Slots(domain.DefaultStaffConfig())
	assert.Len(t, marks, 14)
	assert.Equal(t, types.TimeString("21:00"), marks[len(marks)-1].Time)
}

func TestOperatingHours_Degenerate(t *testing.T) {
	cfg := domain.DefaultStaffConfig()
	cfg.ServiceDurationMinutes = 0
	assert.Empty(t, OperatingHours{}.Slots(cfg))

	cfg = domain.DefaultStaffConfig()
	cfg.OperatingStartTime = "22:00"
	cfg.OperatingEndTime = "08:00"
	assert.Empty(t, OperatingHours{}.Slots(cfg))

	assert.Empty(t, OperatingHours{}.Slots(nil))
}
