package util

import (
	"github.com/dustin/go-humanize"
	"github.com/hauke96/sigolo/v2"
	"time"
)

func LogFatalBug(format string, args ...interface{}) {
	sigolo.Fatalb(1, format+" - This is a bug, please report it", args...)
}

// LogDuration logs the time since the given start as info message with the given amount of processed items.
func LogDuration(what string, amount int, start time.Time) {
	sigolo.Infof("Finished %s of %s items in %s", what, humanize.Comma(int64(amount)), time.Since(start))
}
