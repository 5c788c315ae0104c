// Package birthday resolves the next occurrence of character birthdays relative
// to an explicit reference instant and orders them for reports and calendar
// export. Everything here is pure computation: no I/O, no wall-clock reads.
package birthday
