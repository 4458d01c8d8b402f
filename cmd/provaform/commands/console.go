package commands

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgp/sgp-backend/internal/examform"
)

// consoleAlerter renders dialog alerts as log lines.
type consoleAlerter struct {
	log zerolog.Logger
}

func (a consoleAlerter) Alert(kind examform.AlertKind, title, message string) {
	evt := a.log.Info()
	if kind == examform.AlertError {
		evt = a.log.Error()
	}
	evt.Str("alert", title).Msg(message)
}

// logLoader is the loading indicator: it logs how long each request took.
type logLoader struct {
	log zerolog.Logger

	mu      sync.Mutex
	started time.Time
}

func (l *logLoader) Activate() {
	l.mu.Lock()
	l.started = time.Now()
	l.mu.Unlock()
	l.log.Debug().Msg("Carregando...")
}

func (l *logLoader) Deactivate() {
	l.mu.Lock()
	elapsed := time.Since(l.started)
	l.mu.Unlock()
	l.log.Debug().Dur("elapsed", elapsed).Msg("Concluído")
}
