package mongo

import "time"

// ClientOption configures Client.
type ClientOption func(*ClientConfig)

// ClientConfig holds MongoDB connection settings.
type ClientConfig struct {
	URI                    string
	Database               string
	AppName                string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	PingTimeout            time.Duration
}

// WithURI sets the connection string.
func WithURI(uri string) ClientOption {
	return func(c *ClientConfig) {
		c.URI = uri
	}
}

// WithDatabase sets the database name.
func WithDatabase(database string) ClientOption {
	return func(c *ClientConfig) {
		c.Database = database
	}
}

// WithAppName sets the application name reported to the server.
func WithAppName(name string) ClientOption {
	return func(c *ClientConfig) {
		c.AppName = name
	}
}

// WithPoolSize sets max and min pool sizes.
func WithPoolSize(maxSize, minSize uint64) ClientOption {
	return func(c *ClientConfig) {
		c.MaxPoolSize = maxSize
		c.MinPoolSize = minSize
	}
}

// WithTimeouts sets connect/server-selection/socket timeouts.
func WithTimeouts(connect, selection, socket time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.ConnectTimeout = connect
		c.ServerSelectionTimeout = selection
		c.SocketTimeout = socket
	}
}

// WithPingTimeout bounds the startup ping. Zero skips the ping.
func WithPingTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.PingTimeout = d
	}
}
