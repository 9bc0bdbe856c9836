package telegram

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// SetupLogging configures the process-wide logger for the bot.
//
// Debug adds file/line to every record. When logFile is set, records are
// teed to stdout and the file, so a long-running bot keeps history after
// the terminal is gone.
func SetupLogging(debug bool, logFile string) {
	flags := log.Ldate | log.Ltime | log.Lmsgprefix
	if debug {
		flags |= log.Lshortfile
	}

	out := io.Writer(os.Stdout)
	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("[Logger] Cannot open bot log file %s, keeping stdout only: %v", logFile, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
			log.Printf("[Logger] Bot log teed to %s", logFile)
		}
	}

	log.SetOutput(out)
	log.SetFlags(flags)

	if debug {
		log.Println("[Logger] Debug logging enabled")
	}
}
