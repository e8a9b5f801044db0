package odoo

import "errors"

// Config holds the connection settings for the backend.
type Config struct {
	URL            string
	Database       string
	Username       string
	Password       string
	TimeoutSeconds int
}

var (
	errMissingURL      = errors.New("odoo: url is required")
	errMissingDatabase = errors.New("odoo: database is required")
	errMissingUsername = errors.New("odoo: username is required")
	errMissingPassword = errors.New("odoo: password is required")
)

// Validate checks required fields and applies the default timeout.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errMissingURL
	}
	if c.Database == "" {
		return errMissingDatabase
	}
	if c.Username == "" {
		return errMissingUsername
	}
	if c.Password == "" {
		return errMissingPassword
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
