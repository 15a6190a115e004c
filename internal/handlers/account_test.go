package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Switching an account to dept-admin without a department would leave it in a
// state the department-scoped handlers cannot authorize.
func TestUpdateAccountRequiresDepartmentForDeptAdmin(t *testing.T) {
	setupTestDB(t)

	seeded := models.Admin{Name: "Default", Email: "root@recruitdesk.local", PasswordHash: "hash", Role: models.RoleSuperAdmin}
	require.NoError(t, db.DB.Create(&seeded).Error)

	target := models.Admin{Name: "Ops", Email: "ops@recruitdesk.local", PasswordHash: "hash", Role: models.RoleSuperAdmin}
	require.NoError(t, db.DB.Create(&target).Error)

	body := AccountRequest{Name: "Ops", Email: "ops@recruitdesk.local", Role: models.RoleDeptAdmin}

	ctx, w := testContext(t, http.MethodPut, "/api/admin/accounts", body)
	asSuperAdmin(ctx, seeded.ID)
	ctx.Params = gin.Params{{Key: "admin_id", Value: strconv.Itoa(int(target.ID))}}

	UpdateAccount(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Admin
	require.NoError(t, db.DB.First(&reloaded, target.ID).Error)
	assert.Equal(t, models.RoleSuperAdmin, reloaded.Role)
	assert.Nil(t, reloaded.DepartmentID)

	// With a department the switch goes through.
	dept := models.Department{Name: "Tech", IsActive: true}
	require.NoError(t, db.DB.Create(&dept).Error)

	body.DepartmentID = &dept.ID

	ctx, w = testContext(t, http.MethodPut, "/api/admin/accounts", body)
	asSuperAdmin(ctx, seeded.ID)
	ctx.Params = gin.Params{{Key: "admin_id", Value: strconv.Itoa(int(target.ID))}}

	UpdateAccount(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.DB.First(&reloaded, target.ID).Error)
	assert.Equal(t, models.RoleDeptAdmin, reloaded.Role)
	require.NotNil(t, reloaded.DepartmentID)
	assert.Equal(t, dept.ID, *reloaded.DepartmentID)
}
