package user

import "golang.org/x/crypto/bcrypt"

// HashPassword is used by the seeder; authentication itself lives outside
// this service.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
