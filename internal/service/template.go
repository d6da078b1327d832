package service

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// monthNames is the localized month lookup table, 1-indexed via MonthName.
var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// amountPrinter renders integer amounts with Indonesian digit grouping
// (50000 -> "50.000").
var amountPrinter = message.NewPrinter(language.Indonesian)

// TemplateData is the bag of values available to message templates. Empty
// fields leave their placeholder untouched in the output.
type TemplateData struct {
	Name   string
	Month  string
	Year   string
	Amount string
	Date   string
	Day    string
	Link   string
	Method string
}

// ProcessTemplate substitutes recognized placeholders with values from data.
// Placeholders without a value stay literal; {br} always becomes a newline.
// Pure string transform, never fails.
func ProcessTemplate(template string, data TemplateData) string {
	msg := template
	msg = replaceToken(msg, "{name}", data.Name)
	msg = replaceToken(msg, "{month}", data.Month)
	msg = replaceToken(msg, "{year}", data.Year)
	msg = replaceToken(msg, "{amount}", data.Amount)
	msg = replaceToken(msg, "{date}", data.Date)
	msg = replaceToken(msg, "{day}", data.Day)
	msg = replaceToken(msg, "{link}", data.Link)
	msg = replaceToken(msg, "{method}", data.Method)

	// manual line breaks
	msg = strings.ReplaceAll(msg, "{br}", "\n")

	return msg
}

func replaceToken(msg, token, value string) string {
	if value == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, value)
}

// MonthName returns the localized month name for 1-12, or the bare number
// for anything out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}
	return monthNames[month-1]
}

// FormatAmount renders an integer amount with locale digit grouping.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}

// FormatDate renders a long-form localized date, e.g. "2 Januari 2026".
func FormatDate(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return strconv.Itoa(local.Day()) + " " + MonthName(int(local.Month())) + " " + strconv.Itoa(local.Year())
}

// PaymentLink builds the public payment URL for a bill token.
func PaymentLink(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/pay/" + token
}
