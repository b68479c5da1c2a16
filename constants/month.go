package constants

// MonthAbbreviations holds the pt-BR three-letter month names, January first.
var MonthAbbreviations = [12]string{
	"JAN", "FEV", "MAR", "ABR", "MAI", "JUN",
	"JUL", "AGO", "SET", "OUT", "NOV", "DEZ",
}

// MonthNames holds the accent-free lower-case pt-BR month names, January first.
var MonthNames = [12]string{
	"janeiro", "fevereiro", "marco", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}
