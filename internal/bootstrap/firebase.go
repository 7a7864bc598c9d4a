package bootstrap

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// InitFirebase returns the auth client used to verify dashboard owners' ID
// tokens.
func InitFirebase(ctx context.Context, projectID string) (*auth.Client, error) {
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}
