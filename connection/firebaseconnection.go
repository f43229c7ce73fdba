package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
)

// Firebase holds the clients the configuration asked for. Firestore is nil
// for the memory backend and Auth is nil in jwt mode.
type Firebase struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

func (f *Firebase) Close() error {
	if f == nil || f.Firestore == nil {
		return nil
	}
	return f.Firestore.Close()
}

// FBConnection initialises the Firebase app from the service account key in
// GOOGLE_APPLICATION_CREDENTIALS_1.
func FBConnection(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*Firebase, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	fb := &Firebase{App: app}

	if cfg.Store.Backend == config.BackendFirestore {
		if fb.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("error getting Firestore client: %w", err)
		}
		log.Info("Firestore connection successful")
	}
	if cfg.Auth.Mode == config.AuthModeFirebase {
		if fb.Auth, err = app.Auth(ctx); err != nil {
			_ = fb.Close()
			return nil, fmt.Errorf("error getting Auth client: %w", err)
		}
	}
	return fb, nil
}
