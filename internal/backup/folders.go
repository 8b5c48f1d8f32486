package backup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// folderName renders a date as a backup folder name, day-month-year with no
// zero padding, e.g. "9-8-2024".
func folderName(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Day(), int(t.Month()), t.Year())
}

// parseFolderDate parses a backup folder name. The match is strict: exactly
// three dash-separated numeric tokens forming a real calendar date. Folder
// names that do not match are not backup generations and are left alone by
// rotation and load selection.
func parseFolderDate(name string) (time.Time, bool) {
	parts := strings.Split(name, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31-2-2024 becomes March), which would
	// let an invalid name alias a real date.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
