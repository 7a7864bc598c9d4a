package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/dashboard-builder/infra/cloudrun"
	"github.com/GregMSThompson/dashboard-builder/infra/docker"
	"github.com/GregMSThompson/dashboard-builder/infra/firestore"
	"github.com/GregMSThompson/dashboard-builder/infra/identity"
	"github.com/GregMSThompson/dashboard-builder/infra/kms"
	"github.com/GregMSThompson/dashboard-builder/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// identity platform backs the firebase ID tokens the API verifies
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// dashboards, components and records live in firestore
		if err := firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		// key that wraps dashboard password hashes at rest
		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, "dashboard-builder", "dashboard-passwords")
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, keyName, ident, repo, kmsSvc)
		if err != nil {
			return err
		}
		ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
		ctx.Export("passwordKey", keyName)

		return nil
	})
}
