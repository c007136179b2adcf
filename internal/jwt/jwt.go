package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"flipseven-server/internal/config"
	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "flipseven-server"

// Audience is the intended JWT audience
const Audience = "flipseven-players"

// tokenLifetime is how long a guest token stays valid
const tokenLifetime = time.Hour * 12

var secret []byte

// Claims identify a guest player
type Claims struct {
	jwtgo.RegisteredClaims
	Name string `json:"name"`
}

// LoadSecret will load the signing secret
// this method should only be called once.
func LoadSecret() {
	s := config.Instance().JWT.Secret
	if s == "" {
		logrus.Fatal("missing jwt secret in configuration")
	}

	secret = []byte(s)
}

// Sign will sign a JWT for the player
func Sign(playerID int64, name string) (string, error) {
	if secret == nil {
		panic("LoadSecret() not called")
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, Claims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience:  jwtgo.ClaimStrings{Audience},
			ID:        uuid.New().String(),
			IssuedAt:  jwtgo.NewNumericDate(now),
			ExpiresAt: jwtgo.NewNumericDate(now.Add(tokenLifetime)),
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(playerID, 10),
		},
		Name: name,
	})

	return token.SignedString(secret)
}

// ValidPlayer will validate a signed JWT and return the player ID and name
func ValidPlayer(signedString string) (int64, string, error) {
	if secret == nil {
		panic("LoadSecret() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &Claims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return secret, nil
	})

	if err != nil {
		return 0, "", err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*Claims); ok {
			if !containsAudience(claims.Audience, Audience) {
				return 0, "", errors.New("invalid audience")
			}

			if claims.Issuer != Issuer {
				return 0, "", errors.New("invalid issuer")
			}

			if claims.Name == "" {
				return 0, "", errors.New("missing name")
			}

			id, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				return 0, "", err
			}

			return id, claims.Name, nil
		}

		return 0, "", fmt.Errorf("expected *jwt.Claims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return 0, "", errors.New("claims were not valid")
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
