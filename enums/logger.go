package enums

const (
	LogLevelDebug  = "debug"
	LogLevelInfo   = "info"
	LogLevelWarn   = "warn"
	LogLevelError  = "error"
	LogLevelFatal  = "fatal"
	LogLevelPanic  = "panic"
	LogLevelDPanic = "dpanic"
)

const (
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
)
