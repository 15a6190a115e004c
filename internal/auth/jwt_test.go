package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, InitJWTSecret())

	deptID := uint(3)
	token, err := GenerateJWT(Claims{
		ActorID:      42,
		Email:        "lead@tech.example",
		Kind:         "admin",
		Role:         "dept-admin",
		DepartmentID: &deptID,
	})
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ActorID)
	assert.Equal(t, "lead@tech.example", claims.Email)
	assert.Equal(t, "admin", claims.Kind)
	assert.Equal(t, "dept-admin", claims.Role)
	require.NotNil(t, claims.DepartmentID)
	assert.Equal(t, deptID, *claims.DepartmentID)
}

func TestJWTStudentClaimsOmitAdminFields(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, InitJWTSecret())

	token, err := GenerateJWT(Claims{ActorID: 7, Email: "s@uni.example", Kind: "student"})
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "student", claims.Kind)
	assert.Empty(t, claims.Role)
	assert.Nil(t, claims.DepartmentID)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, InitJWTSecret())

	token, err := GenerateJWT(Claims{ActorID: 7, Kind: "student"})
	require.NoError(t, err)

	_, err = VerifyJWT(token + "x")
	assert.Error(t, err)

	_, err = VerifyJWT("not-a-token")
	assert.Error(t, err)
}
