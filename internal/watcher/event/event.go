package event

import (
	"time"

	"golang-stock-watcher/internal/entity"
)

// Kind identifies what an Event carries.
type Kind string

const (
	KindLog              Kind = "log"
	KindResult           Kind = "result"
	KindPassComplete     Kind = "pass_complete"
	KindWatchlistChanged Kind = "watchlist_changed"
)

// Severity tags a log event for presentation.
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityError     Severity = "error"
	SeverityTargetMet Severity = "target_met"
)

// PassSummary is attached to the terminal event of a check pass.
type PassSummary struct {
	Checked     int       `json:"checked"`
	Matched     int       `json:"matched"`
	Unavailable int       `json:"unavailable"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Event is the unit delivered to presentation consumers.
type Event struct {
	Kind     Kind                `json:"kind"`
	PassID   string              `json:"pass_id,omitempty"`
	Message  string              `json:"message,omitempty"`
	Severity Severity            `json:"severity,omitempty"`
	Result   *entity.CheckResult `json:"result,omitempty"`
	Summary  *PassSummary        `json:"summary,omitempty"`
	Time     time.Time           `json:"time"`
}

func Log(passID string, severity Severity, message string) Event {
	return Event{Kind: KindLog, PassID: passID, Severity: severity, Message: message, Time: time.Now()}
}

func Result(passID string, result entity.CheckResult) Event {
	return Event{Kind: KindResult, PassID: passID, Result: &result, Time: time.Now()}
}

func PassComplete(passID string, summary PassSummary) Event {
	return Event{Kind: KindPassComplete, PassID: passID, Summary: &summary, Time: time.Now()}
}

func WatchlistChanged(message string) Event {
	return Event{Kind: KindWatchlistChanged, Message: message, Time: time.Now()}
}
