// Package service holds the application's business logic.
package service

import (
	"context"
	"errors"

	"holyguitars/internal/models"
	"holyguitars/internal/repository"

	"gorm.io/gorm"
)

// notFound converts a gorm record miss into the application taxonomy and
// passes every other error through.
func notFound(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

// capabilitiesOf loads the account behind uid and resolves its capability
// set. The set is resolved once per request and carried by the caller, so
// permission checks never compare role strings.
func capabilitiesOf(ctx context.Context, users repository.UserRepository, uid string) (models.Capabilities, *models.User, error) {
	user, err := users.GetByUID(ctx, uid)
	if err != nil {
		return models.Capabilities{}, nil, notFound(err, "User", uid)
	}
	return models.CapabilitiesFor(user.Role), user, nil
}
