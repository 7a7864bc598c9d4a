package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/dashboard-builder/internal/config"
	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	// KMS is nil unless KMSKEYNAME is set.
	KMS *gcpkms.KeyManagementClient
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID, cfg.Database)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Log.Info("firestore connected", "project", cfg.ProjectID, "database", cfg.Database)
	if cfg.KMSKeyName != "" {
		bs.KMS, err = InitKMS(applicationCtx)
		if err != nil {
			return bs, err
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("firestore close failed", "error", err)
		}
	}
	if bs.KMS != nil {
		if err := bs.KMS.Close(); err != nil {
			bs.Log.Warn("kms close failed", "error", err)
		}
	}
}
