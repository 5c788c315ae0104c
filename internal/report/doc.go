// Package report renders resolved birthdays for people and calendars: a
// plain-text report for the CLI, an HTML view model for the web front end
// and an iCalendar export.
package report
