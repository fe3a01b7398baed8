package repositories

import (
	"context"

	"github.com/campus-portal/portal-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role   *models.UserRole
	Query  string // Search query for name or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// UserRepository stores portal accounts. Not-found errors wrap gorm.ErrRecordNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByStudentCode(ctx context.Context, code string) (*models.User, error)
	GetByStudentCodes(ctx context.Context, codes []string) ([]models.User, error)

	List(ctx context.Context, filters UserFilters) ([]models.User, int64, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}
