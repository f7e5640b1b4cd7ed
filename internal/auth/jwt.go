package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"TalentBridge-backend/internal/model"
)

var SECRET_KEY = os.Getenv("SECRET_KEY")

// JwtIssuer is the issuer claim stamped on every access token.
const JwtIssuer = "TalentBridge"

const tokenTTL = 10 * time.Hour

// Claims carries the registered claims plus the role and approval
// state the authorization layer needs without a DB round trip.
type Claims struct {
	jwt.RegisteredClaims
	Roles    []string `json:"roles"`
	Approved bool     `json:"approved"`
}

// GenerateToken signs an HS256 access token for the given user. The
// subject is the user's email and the role is prefixed the same way
// the authorities appear on the wire ("ROLE_APPLICANT" etc.).
func GenerateToken(user model.User) (string, error) {
	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JwtIssuer,
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Roles:    []string{"ROLE_" + user.Role},
		Approved: user.IsApproved,
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %s", err)
	}

	return signedToken, nil
}

// ValidatedToken parses an encoded token and verifies both the HMAC
// signature and the standard claims.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
