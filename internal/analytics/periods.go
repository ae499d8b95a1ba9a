package analytics

// Period is a named look-back window over a series.
type Period struct {
	Name  string
	Days  int
	Label string
}

// DefaultPeriod is used for unknown names.
const DefaultPeriod = "30d"

// periods contains the built-in windows offered by the dashboard.
var periods = map[string]Period{
	"7d":  {Name: "7d", Days: 7, Label: "Last 7 days"},
	"14d": {Name: "14d", Days: 14, Label: "Last 14 days"},
	"30d": {Name: "30d", Days: 30, Label: "Last 30 days"},
	"90d": {Name: "90d", Days: 90, Label: "Last 90 days"},
}

// GetPeriod returns the period for the given name.
// Falls back to "30d" if unknown.
func GetPeriod(name string) Period {
	if p, ok := periods[name]; ok {
		return p
	}
	return periods[DefaultPeriod]
}

// PeriodNames returns available period names, shortest first.
func PeriodNames() []string {
	return []string{"7d", "14d", "30d", "90d"}
}
