// Package identitysvc implements core.IdentityService on top of the
// document store, with bcrypt-hashed credentials. It stands in for a
// hosted identity provider; the directory record in core/user stays
// the source of truth for roles either way.
package identitysvc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/tspagiari/oficinas/core"
)

const identityCollection = "identities"

// credentialDoc is the stored identity. The email is kept lowercased
// so the in-use check and authentication agree on case.
type credentialDoc struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type localService struct {
	store core.DocStore
}

var _ core.IdentityService = (*localService)(nil)

func NewLocalService(store core.DocStore) *localService {
	return &localService{store: store}
}

func (svc *localService) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	email = core.CleanString(email, true /* lower */)

	existing, err := svc.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", core.ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	doc := credentialDoc{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err = svc.store.Write(ctx, identityCollection+"/"+doc.ID, doc); err != nil {
		return "", errors.Wrap(err, "storing identity")
	}
	return doc.ID, nil
}

func (svc *localService) Authenticate(ctx context.Context, email, password string) (string, error) {
	doc, err := svc.findByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", core.ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword(doc.PasswordHash, []byte(password)); err != nil {
		return "", core.ErrInvalidCredentials
	}
	return doc.ID, nil
}

// SignOut is a no-op: sessions are stateless tokens, invalidated only
// by expiry.
func (svc *localService) SignOut(ctx context.Context) error { return nil }

func (svc *localService) findByEmail(ctx context.Context, email string) (*credentialDoc, error) {
	docs := make([]credentialDoc, 0, 1)
	err := core.ReadRetry(ctx, func() error {
		return svc.store.ScanWhere(ctx, identityCollection, "email", email, &docs)
	})
	if err != nil {
		return nil, errors.Wrap(err, "looking up identity")
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}
