package logging

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Init configures the process-wide logger for CLI output.
func Init(out io.Writer, debug bool) {
	log.SetOutput(out)
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		ForceColors:            true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}
