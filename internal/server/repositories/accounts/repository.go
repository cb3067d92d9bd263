package accounts

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Repository is the narrow account-store interface consumed by services.
// Implementations must enforce username uniqueness at the store level as a
// backstop to the application-level check.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}
