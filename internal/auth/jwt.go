package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret string

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

// Claims mirrors the authenticated actor: kind is "admin" or "student"; role
// and department_id are set for admins only.
type Claims struct {
	ActorID      uint
	Email        string
	Kind         string
	Role         string
	DepartmentID *uint
}

func GenerateJWT(claims Claims) (string, error) {
	mapClaims := jwt.MapClaims{
		"actor_id": claims.ActorID,
		"email":    claims.Email,
		"kind":     claims.Kind,
		"exp":      time.Now().Add(time.Hour * 168).Unix(),
	}

	if claims.Role != "" {
		mapClaims["role"] = claims.Role
	}

	if claims.DepartmentID != nil {
		mapClaims["department_id"] = *claims.DepartmentID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	actorID, ok := mapClaims["actor_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid actor ID in token claims")
	}

	kind, ok := mapClaims["kind"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid actor kind in token claims")
	}

	claims := &Claims{
		ActorID: uint(actorID),
		Kind:    kind,
	}

	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}

	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}

	if departmentID, ok := mapClaims["department_id"].(float64); ok {
		id := uint(departmentID)
		claims.DepartmentID = &id
	}

	return claims, nil
}
