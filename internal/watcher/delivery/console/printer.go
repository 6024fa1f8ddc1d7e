package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang-stock-watcher/internal/watcher/event"
)

var banner = strings.Repeat("=", 40)

// Printer renders events as lines of text.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Handle(_ context.Context, ev event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	switch ev.Kind {
	case event.KindLog:
		switch ev.Severity {
		case event.SeverityTargetMet:
			_, err = fmt.Fprintf(p.out, "%s\n%s\n%s\n", banner, ev.Message, banner)
		case event.SeverityWarning, event.SeverityError:
			_, err = fmt.Fprintf(p.out, "[%s] %s\n", ev.Severity, ev.Message)
		default:
			_, err = fmt.Fprintln(p.out, ev.Message)
		}
	case event.KindPassComplete:
		if ev.Summary != nil {
			_, err = fmt.Fprintf(p.out, "Check finished: %d checked, %d matched, %d unavailable.\n",
				ev.Summary.Checked, ev.Summary.Matched, ev.Summary.Unavailable)
		}
	}
	return err
}
