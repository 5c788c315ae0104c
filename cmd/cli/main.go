// Command waifu-calendar prints the upcoming birthdays of an AniList
// user's favorite characters or exports them as an iCalendar file.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
