package memory

import "github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"

// SeedUsers returns demo participants for STORAGE_DRIVER=memory.
func SeedUsers() []user.User {
	return []user.User{
		{ID: 1, Username: "demo"},
		{ID: 2, Username: "kicktipp"},
		{ID: 3, Username: "heidenheim-fan"},
	}
}
