package connection

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/logger"
)

// Config carries what a transport needs to reach the service.
type Config struct {
	URL     url.URL
	BaseURL string
	Timeout time.Duration
	Codec   codec.Codec
	Logger  logger.Logger
	// Headers are added to every request.
	Headers map[string]string
}

// NewConfig creates a Config for the endpoint u, such as
// "https://mbaas.example.com/2013-09-01". The path is kept as the API prefix.
func NewConfig(u *url.URL) *Config {
	return &Config{
		URL:     *u,
		BaseURL: strings.TrimSuffix(fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path), "/"),
		Timeout: constants.DefaultHTTPTimeout,
		Codec:   codec.JSON(),
		Logger:  logger.New(slog.NewTextHandler(os.Stdout, nil)),
		Headers: map[string]string{},
	}
}

// Validate fills defaults and reports missing required settings.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return constants.ErrNoBaseURL
	}
	if c.Codec == nil {
		return constants.ErrNoCodec
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultHTTPTimeout
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	return nil
}

