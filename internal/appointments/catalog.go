package appointments

import "time"

// AppointmentType is a fixed catalog entry; the catalog is not
// user-editable.
type AppointmentType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Price    string `json:"price"`
}

var appointmentTypes = []AppointmentType{
	{ID: "checkup", Name: "Regular Checkup", Duration: "60 min", Price: "$120"},
	{ID: "cleaning", Name: "Teeth Cleaning", Duration: "45 min", Price: "$90"},
	{ID: "consultation", Name: "Consultation", Duration: "30 min", Price: "$75"},
	{ID: "emergency", Name: "Emergency Visit", Duration: "30 min", Price: "$150"},
}

// Types returns the static appointment type catalog.
func Types() []AppointmentType {
	out := make([]AppointmentType, len(appointmentTypes))
	copy(out, appointmentTypes)
	return out
}

// TypeByID looks up a catalog entry.
func TypeByID(id string) (AppointmentType, bool) {
	for _, t := range appointmentTypes {
		if t.ID == id {
			return t, true
		}
	}
	return AppointmentType{}, false
}

// SlotLabels returns the fixed bookable time labels: mornings 09:00-11:30
// and afternoons 14:00-16:30 at half-hour steps.
func SlotLabels() []string {
	return []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	}
}

// UpcomingDates returns the next `days` bookable dates starting tomorrow,
// formatted as YYYY-MM-DD.
func UpcomingDates(now time.Time, days int) []string {
	out := make([]string, 0, days)
	for i := 1; i <= days; i++ {
		out = append(out, now.AddDate(0, 0, i).Format(DateLayout))
	}
	return out
}
