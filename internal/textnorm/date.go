package textnorm

import (
	"regexp"
	"strconv"

	"github.com/joseph-ayodele/energy-invoices/constants"
)

var reMonthYear = regexp.MustCompile(`^\s*(0?[1-9]|1[0-2])\s*/\s*(\d{4})\s*$`)

// FormatMonthYear turns "10/2024" into "OUT/24". Anything that is not a
// numeric month/year pair yields "".
func FormatMonthYear(s string) string {
	m := reMonthYear.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	month, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return constants.MonthAbbreviations[month-1] + "/" + m[2][2:]
}

// MonthYear builds the "mm/yyyy" form consumed by FormatMonthYear.
func MonthYear(month, year int) string {
	if month < 1 || month > 12 || year < 1000 || year > 9999 {
		return ""
	}
	return twoDigits(month) + "/" + strconv.Itoa(year)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
