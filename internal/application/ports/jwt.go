package ports

import (
	"file-storage-api/internal/infrastructure/jwt"
)

type TokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}
