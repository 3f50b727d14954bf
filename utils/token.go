package utils

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
)

var JwtSecret []byte

func init() {
    // Load the .env file
    if err := godotenv.Load(); err != nil {
        // It's okay if the .env file isn't found; environment variables may be set elsewhere
        log.Println("No .env file found or error loading .env file:", err)
    }

    JwtSecret = []byte(os.Getenv("JWT_SECRET"))
}

// GenerateAccessToken creates a new JWT access token for an agent
func GenerateAccessToken(agentID uint) (string, error) {
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "agent_id": agentID,
        "exp":      time.Now().Add(72 * time.Hour).Unix(),
    })

    return token.SignedString(JwtSecret)
}

// ExtractAgentIDFromToken parses a Bearer header and returns the agent id claim
func ExtractAgentIDFromToken(authHeader string) (uint, error) {
    parts := strings.SplitN(authHeader, " ", 2)
    if len(parts) != 2 || parts[0] != "Bearer" {
        return 0, errors.New("invalid authorization header format")
    }

    token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
        return JwtSecret, nil
    })

    if err != nil || !token.Valid {
        return 0, errors.New("invalid token")
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return 0, errors.New("invalid token claims")
    }

    agentIDFloat, ok := claims["agent_id"].(float64) // JWT numeric values are float64
    if !ok {
        return 0, errors.New("invalid agent ID in token")
    }

    return uint(agentIDFloat), nil
}
