package services

import (
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
)

func requireUser(uid string) error {
	if uid == "" {
		return errs.NewForbiddenError("authentication required")
	}
	return nil
}

func requireOwner(ownerUID, uid string) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	if ownerUID != uid {
		return errs.NewForbiddenError("only the dashboard owner can change it")
	}
	return nil
}
