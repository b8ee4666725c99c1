package migrate

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// gooseLogger forwards goose's printf-style output to the runner's logger.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(gooseMessage(format, v...), "component", "goose")
}

// Fatalf keeps goose's contract of never returning.
func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(gooseMessage(format, v...), "component", "goose")
	os.Exit(1)
}

func gooseMessage(format string, v ...any) string {
	return strings.TrimPrefix(strings.TrimSpace(fmt.Sprintf(format, v...)), "goose: ")
}
