package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyOwner      = "owner"
	KeyRepo       = "repository"
	KeyRef        = "ref"
	KeyRefType    = "ref_type"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeySource     = "source"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyURL        = "url"
	KeyAttempt    = "attempt"
	KeyError      = "error"
	KeyCategory   = "category"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Owner(o string) slog.Attr      { return slog.String(KeyOwner, o) }
func Repository(r string) slog.Attr { return slog.String(KeyRepo, r) }
func Ref(r string) slog.Attr        { return slog.String(KeyRef, r) }
func RefType(t string) slog.Attr    { return slog.String(KeyRefType, t) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func File(f string) slog.Attr       { return slog.String(KeyFile, f) }
func Stage(name string) slog.Attr   { return slog.String(KeyStage, name) }
func Outcome(o string) slog.Attr    { return slog.String(KeyOutcome, o) }
func Source(s string) slog.Attr     { return slog.String(KeySource, s) }
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr     { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr     { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr { return slog.String(KeyUserAgent, ua) }
func URL(u string) slog.Attr        { return slog.String(KeyURL, u) }
func Attempt(n int) slog.Attr       { return slog.Int(KeyAttempt, n) }
func Category(c string) slog.Attr   { return slog.String(KeyCategory, c) }

// Since reports the milliseconds elapsed since start.
func Since(start time.Time) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(time.Since(start).Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
