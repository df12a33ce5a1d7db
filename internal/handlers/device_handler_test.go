package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDeviceHandler(db *gorm.DB) *DeviceHandler {
	return NewDeviceHandler(
		repositories.NewPostgresPushTokenRepository(db),
		repositories.NewPostgresProfileRepository(db),
	)
}

func TestRegisterDevice(t *testing.T) {
	db := setupTestDB(t)
	handler := newDeviceHandler(db)
	user := seedProfile(t, db, models.RoleCustomer, true, models.ApprovalApproved)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/devices",
		`{"expo_push_token":"ExponentPushToken[a]","platform":"android"}`, user.FirebaseUID)
	require.NoError(t, handler.RegisterDevice(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var tokens []models.PushToken
	require.NoError(t, db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, user.ID, tokens[0].UserID)
}

func TestRegisterDeviceValidation(t *testing.T) {
	db := setupTestDB(t)
	handler := newDeviceHandler(db)
	user := seedProfile(t, db, models.RoleCustomer, true, models.ApprovalApproved)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/devices", `{"platform":"android"}`, user.FirebaseUID)
	err := handler.RegisterDevice(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.PushToken{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnregisterDevice(t *testing.T) {
	db := setupTestDB(t)
	handler := newDeviceHandler(db)
	user := seedProfile(t, db, models.RoleCustomer, true, models.ApprovalApproved)

	require.NoError(t, db.Create(&models.PushToken{
		UserID:        user.ID,
		ExpoPushToken: "ExponentPushToken[a]",
	}).Error)

	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/devices/ExponentPushToken[a]", "", user.FirebaseUID)
	c.SetParamNames("token")
	c.SetParamValues("ExponentPushToken[a]")
	require.NoError(t, handler.UnregisterDevice(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.PushToken{}).Count(&count).Error)
	assert.Zero(t, count)
}
