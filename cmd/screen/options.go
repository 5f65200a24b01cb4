package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/pkg/client"
)

// options are shared by every subcommand. Sessions live in the process
// cookie jar, so each run logs in again.
type options struct {
	apiURL        string
	classifierURL string
	username      string
	password      string
	timeout       time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.apiURL, "api", envOr("CG_API_URL", "http://localhost:5000/api"), "API base URL")
	f.StringVar(&o.classifierURL, "classifier", envOr("CLASSIFIER_URL", "http://localhost:8000"), "image classification service URL")
	f.StringVarP(&o.username, "username", "u", os.Getenv("CG_USERNAME"), "account username")
	f.StringVarP(&o.password, "password", "p", os.Getenv("CG_PASSWORD"), "account password")
	f.DurationVar(&o.timeout, "timeout", 0, "per request timeout, 0 for none")
}

func (o *options) client() (*client.Client, error) {
	return client.New(o.apiURL, o.timeout)
}

// login returns a client holding a fresh session cookie.
func (o *options) login(ctx context.Context) (*client.Client, *model.User, error) {
	if o.username == "" || o.password == "" {
		return nil, nil, errors.New("--username and --password (or CG_USERNAME and CG_PASSWORD) are required")
	}
	c, err := o.client()
	if err != nil {
		return nil, nil, err
	}
	user, err := c.Login(ctx, o.username, o.password)
	if err != nil {
		return nil, nil, fmt.Errorf("login failed: %w", err)
	}
	return c, user, nil
}
