package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// compositeIndex is one ordered query the API runs.
type compositeIndex struct {
	name       string
	collection string
	filter     string
	order      string
	direction  string
}

var indexes = []compositeIndex{
	{"componentsByDashboard", "components", "dashboardSlug", "createdAt", "ASCENDING"},
	{"dashboardsByOwner", "dashboards", "ownerUid", "updatedAt", "DESCENDING"},
}

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) error {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return err
	}

	return createIndexes(ctx, prov, db)
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:    pulumi.String(projectID),
		Name:       pulumi.String("(default)"),
		LocationId: pulumi.String(region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createIndexes(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	for _, idx := range indexes {
		_, err := firestore.NewIndex(ctx, idx.name, &firestore.IndexArgs{
			Database:   db.Name,
			Collection: pulumi.String(idx.collection),
			Fields: firestore.IndexFieldArray{
				&firestore.IndexFieldArgs{FieldPath: pulumi.String(idx.filter), Order: pulumi.String("ASCENDING")},
				&firestore.IndexFieldArgs{FieldPath: pulumi.String(idx.order), Order: pulumi.String(idx.direction)},
			},
		},
			pulumi.Provider(prov),
			pulumi.DependsOn([]pulumi.Resource{db}),
		)
		if err != nil {
			return fmt.Errorf("index %s: %w", idx.name, err)
		}
	}
	return nil
}
