package mirror

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebasedb "firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// FirebaseStore writes to a Firebase Realtime Database
type FirebaseStore struct {
	client *firebasedb.Client
}

var _ Store = (*FirebaseStore)(nil)

// NewFirebaseStore connects to the database at databaseURL. With an empty
// credentialsFile the application default credentials are used.
func NewFirebaseStore(ctx context.Context, databaseURL, credentialsFile string) (*FirebaseStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to realtime database: %w", err)
	}

	return &FirebaseStore{client: client}, nil
}

func (s *FirebaseStore) SetValue(ctx context.Context, path string, value float64) error {
	ref := s.client.NewRef("/")
	for _, segment := range Split(path) {
		ref = ref.Child(segment)
	}
	if err := ref.Set(ctx, value); err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return nil
}
