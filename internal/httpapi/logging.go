package httpapi

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger of the HTTP layer. Disabled until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("MLACTIONS_REQUEST_LOG"))

// SetDefaultLogLevel overrides the level used when a request carries none.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// reqLog logs the start and end of an action request at the requested level.
type reqLog struct {
	lvl    LogLevel
	r      *http.Request
	action string
	start  time.Time
}

func newReqLog(r *http.Request, action, msg string) *reqLog {
	l := &reqLog{lvl: requestLogLevel(r), r: r, action: action, start: time.Now()}
	if l.lvl >= LevelInfo {
		l.event(zlog.Info()).Msg(msg + " start")
	}
	return l
}

func (l *reqLog) event(e *zerolog.Event) *zerolog.Event {
	e = e.Str("path", l.r.URL.Path).Str("action", l.action)
	if rid := middleware.GetReqID(l.r.Context()); rid != "" {
		e = e.Str("request_id", rid)
	}
	return e
}

// end logs the outcome. Errors are logged from LevelError up.
func (l *reqLog) end(msg string, status int, err error) {
	if l.lvl < LevelError || (err == nil && l.lvl < LevelInfo) {
		return
	}
	e := zlog.Info()
	if err != nil {
		e = zlog.Error().Err(err)
	}
	l.event(e).Int("status", status).Dur("dur", time.Since(l.start)).Msg(msg + " end")
}

// lines logs setup status lines one by one at debug level.
func (l *reqLog) lines(lines []string) {
	if l.lvl < LevelDebug {
		return
	}
	for _, s := range lines {
		l.event(zlog.Debug()).Msg("setup> " + s)
	}
}
