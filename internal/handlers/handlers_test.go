package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/middleware"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/recruitdesk/recruitdesk/internal/rounds"
	"github.com/recruitdesk/recruitdesk/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB points the global connection at an in-memory database. A single
// open connection keeps the memory database alive across queries.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.Admin{},
		&models.Student{},
		&models.Department{},
		&models.Application{},
		&models.Round{},
		&models.RoundDepartment{},
		&models.RoundCandidate{},
		&models.DepartmentQuestion{},
		&models.QuestionResponse{},
		&models.ProfileField{},
		&models.SiteSettings{},
		&models.AuditLog{},
	))

	db.DB = gdb
}

func testContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	return ctx, w
}

func asSuperAdmin(ctx *gin.Context, id uint) {
	ctx.Set(types.ContextActorKey, middleware.AuthenticatedActor{
		ID:    id,
		Name:  "Root",
		Email: "root@recruitdesk.local",
		Kind:  rounds.ActorAdmin,
		Role:  models.RoleSuperAdmin,
	})
}

func asDeptAdmin(ctx *gin.Context, id uint, departmentID *uint) {
	ctx.Set(types.ContextActorKey, middleware.AuthenticatedActor{
		ID:           id,
		Name:         "Dept",
		Email:        "dept@recruitdesk.local",
		Kind:         rounds.ActorAdmin,
		Role:         models.RoleDeptAdmin,
		DepartmentID: departmentID,
	})
}
