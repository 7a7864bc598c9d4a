package crypto

import (
	"context"
	"encoding/base64"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
)

type kms struct {
	client  *gcpkms.KeyManagementClient
	keyName string
}

func NewKMS(client *gcpkms.KeyManagementClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// Wrap encrypts plaintext with the configured key and returns base64 text.
func (k *kms) Wrap(ctx context.Context, plaintext string) (string, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", kmsError("kms encrypt failed", err)
	}
	return base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

// Unwrap decrypts base64 ciphertext produced by Wrap.
func (k *kms) Unwrap(ctx context.Context, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.NewEncryptionError("ciphertext is not valid base64", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: raw,
	})
	if err != nil {
		return "", kmsError("kms decrypt failed", err)
	}
	return string(resp.Plaintext), nil
}

// kmsError reports an unreachable KMS as a retryable external failure and
// everything else as an encryption error.
func kmsError(msg string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errs.NewExternalServiceError("kms", msg, true, err)
	}
	return errs.NewEncryptionError(msg, err)
}
