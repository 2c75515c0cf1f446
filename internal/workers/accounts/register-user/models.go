// internal/workers/accounts/register-user/models.go
package registeruser

import "gigdial/internal/models"

type Input = models.Registration

type Output struct {
	User models.RegisteredUser `json:"user"`
}
