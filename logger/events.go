package logger

// Pipeline event kinds. Every operational branch of the contact pipeline that
// needs operator correlation emits exactly one of these.
const (
	EventSpamBlocked = "SPAM_BLOCKED"
	EventRateLimited = "RATE_LIMITED"
	EventResendError = "RESEND_ERROR"
	EventSuccess     = "SUCCESS"
	EventError       = "ERROR"
)

// Event emits a single self-contained structured record for the given event
// kind with arbitrary key/value context. Records are written immediately and
// independently; there is no buffering.
func Event(kind string, keysAndValues ...interface{}) {
	GetLogger().Infow(kind, keysAndValues...)
}
