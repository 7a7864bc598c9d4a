package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
)

// InitFirestore connects to the named database. FIRESTORE_EMULATOR_HOST is
// honoured by the client library.
func InitFirestore(ctx context.Context, projectID, database string) (*firestore.Client, error) {
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	return firestore.NewClientWithDatabase(ctx, projectID, database)
}
