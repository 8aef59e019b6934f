package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownSeconds bounds graceful shutdown, including a run in progress.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"30"`
}

// Address returns the listen address for Port.
func (c Config) Address() string {
	return ":" + c.Port
}
