package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/auth"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/rounds"
	"github.com/recruitdesk/recruitdesk/internal/types"
)

// AuthenticatedActor is the request-scoped identity placed in the gin context.
type AuthenticatedActor struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Kind         string `json:"kind"` // "admin" or "student"
	Role         string `json:"role,omitempty"`
	DepartmentID *uint  `json:"department_id,omitempty"`
}

func (a AuthenticatedActor) IsAdmin() bool {
	return a.Kind == rounds.ActorAdmin
}

func (a AuthenticatedActor) IsSuperAdmin() bool {
	return a.IsAdmin() && a.Role == models.RoleSuperAdmin
}

func (a AuthenticatedActor) IsDeptAdmin() bool {
	return a.IsAdmin() && a.Role == models.RoleDeptAdmin
}

func (a AuthenticatedActor) IsStudent() bool {
	return a.Kind == rounds.ActorStudent
}

// WorkflowActor converts the request identity into the capability scope the
// workflow engine authorizes against.
func (a AuthenticatedActor) WorkflowActor() rounds.Actor {
	scope := rounds.NoScope()

	if a.IsSuperAdmin() {
		scope = rounds.GlobalScope()
	} else if a.IsDeptAdmin() && a.DepartmentID != nil {
		scope = rounds.DepartmentScope(*a.DepartmentID)
	}

	return rounds.Actor{ID: a.ID, Kind: a.Kind, Scope: scope}
}

// AuthMiddleware accepts the token as a Bearer header or as the auth cookie,
// verifies it and loads the backing account.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)

		if tokenString == "" {
			if cookie, err := ctx.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		claims, err := auth.VerifyJWT(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		actor, err := loadActor(claims)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			return
		}

		ctx.Set(types.ContextActorKey, actor)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// loadActor re-reads the account so revoked admins and deleted students drop
// out immediately, even with a live token.
func loadActor(claims *auth.Claims) (AuthenticatedActor, error) {
	switch claims.Kind {
	case rounds.ActorAdmin:
		var admin models.Admin

		if err := db.DB.Where("id = ?", claims.ActorID).First(&admin).Error; err != nil {
			return AuthenticatedActor{}, err
		}

		return AuthenticatedActor{
			ID:           admin.ID,
			Name:         admin.Name,
			Email:        admin.Email,
			Kind:         rounds.ActorAdmin,
			Role:         admin.Role,
			DepartmentID: admin.DepartmentID,
		}, nil

	default:
		var student models.Student

		if err := db.DB.Where("id = ?", claims.ActorID).First(&student).Error; err != nil {
			return AuthenticatedActor{}, err
		}

		return AuthenticatedActor{
			ID:    student.ID,
			Name:  student.Name,
			Email: student.Email,
			Kind:  rounds.ActorStudent,
		}, nil
	}
}

// RequireSuperAdmin gates site-wide administration.
func RequireSuperAdmin() gin.HandlerFunc {
	return requireActor(func(actor AuthenticatedActor) bool {
		return actor.IsSuperAdmin()
	}, "Super admin privileges required")
}

// RequireDeptAdmin gates the department admin surface; a dept-admin without an
// assigned department is refused.
func RequireDeptAdmin() gin.HandlerFunc {
	return requireActor(func(actor AuthenticatedActor) bool {
		return actor.IsDeptAdmin() && actor.DepartmentID != nil
	}, "Department admin privileges required")
}

// RequireAdmin admits any admin role.
func RequireAdmin() gin.HandlerFunc {
	return requireActor(func(actor AuthenticatedActor) bool {
		return actor.IsAdmin()
	}, "Admin privileges required")
}

func RequireStudent() gin.HandlerFunc {
	return requireActor(func(actor AuthenticatedActor) bool {
		return actor.IsStudent()
	}, "Students only")
}

func requireActor(allowed func(AuthenticatedActor) bool, message string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextActorKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		actor, ok := value.(AuthenticatedActor)

		if !ok || !allowed(actor) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}

		ctx.Next()
	}
}
