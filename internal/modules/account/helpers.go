package account

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// hashPassword uses bcrypt to generate a hash from a plaintext password.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// checkPasswordHash compares a plaintext password with a bcrypt hash.
func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// linkHash derives the url-safe proof embedded in verification and reset
// links. Links already in circulation carry md5 hex digests of the one-time
// code, so the digest algorithm cannot change without invalidating them.
func linkHash(code string) string {
	sum := md5.Sum([]byte(code))
	return hex.EncodeToString(sum[:])
}

// generateCode produces a numeric one-time code of the given length.
func generateCode(length int) (string, error) {
	const digits = "0123456789"
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		out[i] = digits[n.Int64()]
	}
	return string(out), nil
}

// signToken creates a session JWT for a given account ID.
func signToken(accountID, secret string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID,
		"exp": time.Now().Add(expiry).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// verificationLink builds the one-click link delivered in verification and
// reset mails: <redirect>/<email>/<md5(code)>.
func verificationLink(redirectURL, email, code string) string {
	return fmt.Sprintf("%s/%s/%s", redirectURL, email, linkHash(code))
}

// codeExpiry returns the expiration timestamp for a freshly issued code.
func codeExpiry(ttl time.Duration) *time.Time {
	t := time.Now().Add(ttl)
	return &t
}
