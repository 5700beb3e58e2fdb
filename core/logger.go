package core

// Logger is any leveled logger.
// args may contain an error, a map[string]interface{} of extra fields or the user.User
// performing the request.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
