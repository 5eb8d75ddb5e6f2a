package middleware

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const UserIDLocalKey = "UserID"

// RequireAuth validates an HS256 bearer token and stores its subject as the
// acting user. It passes every request through when no secret is configured.
func (m *Middleware) RequireAuth() fiber.Handler {
	secret := []byte(m.Config.AuthJWTSecret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *fiber.Ctx) error {
		if !m.Config.AuthEnabled() {
			return c.Next()
		}

		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" || tokenParts[1] == "" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token, err := parser.Parse(tokenParts[1], func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			log.Info("token validation failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		subject, err := token.Claims.GetSubject()
		if err != nil {
			log.Info("token has no subject", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			log.Info("token subject is not a user id", "subject", subject)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// GetUserID returns the authenticated user, if any.
func GetUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals(UserIDLocalKey).(uuid.UUID)
	return userID, ok
}
