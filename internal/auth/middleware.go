package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tourism-portal/events-portal-backend/pkg/workflows"
)

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "role"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   uuid.UUID
	Role workflows.Role
}

// Middleware validates the bearer token and stores the actor in the gin
// context. Requests without a valid token are rejected.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sub, err := claims.GetSubject()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing subject claim"})
			return
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "subject is not a valid id"})
			return
		}

		role, _ := claims["role"].(string)

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxRoleKey, workflows.ParseRole(role))
		c.Next()
	}
}

// ActorFrom returns the authenticated actor for the request. Outside the
// middleware (public routes) it yields the public role.
func ActorFrom(c *gin.Context) Actor {
	actor := Actor{Role: workflows.RolePublic}
	if v, ok := c.Get(ctxUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			actor.ID = id
		}
	}
	if v, ok := c.Get(ctxRoleKey); ok {
		if role, ok := v.(workflows.Role); ok {
			actor.Role = role
		}
	}
	return actor
}

// RequireWorkflowRole restricts a route group to roles that participate in
// the approval workflow.
func RequireWorkflowRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !workflows.CanManageWorkflow(ActorFrom(c).Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
