package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled"`
	UseConsoleWriter bool `mapstructure:"use_console_writer"`
}

// LogFile implements a rolling file based logger split into info and error files.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`

	InfoLog  string `mapstructure:"info"`
	ErrorLog string `mapstructure:"error"`

	MaxSize    int `mapstructure:"max_size"` // megabytes
	MaxBackups int `mapstructure:"max_backups"`
	MaxAge     int `mapstructure:"max_age"` // days
}

// Log implements the logger config.
type Log struct {
	LogLevel     string `mapstructure:"level"` // trace, debug, info, warn, error.
	ReportCaller bool   `mapstructure:"report_caller"`

	AppName     string `mapstructure:"app_name"`
	ServiceName string `mapstructure:"service_name"`

	Console Console `mapstructure:"console"`
	File    LogFile `mapstructure:"file"`
}
