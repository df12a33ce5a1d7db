package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pattibytes/backend/internal/fanout"
	"github.com/pattibytes/backend/internal/metrics"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/repositories"
	"github.com/pattibytes/backend/validators"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Notification{}, &models.PushToken{}))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, role string, active bool, approval string) *models.Profile {
	profile := &models.Profile{
		ID:             uuid.NewString(),
		FirebaseUID:    uuid.NewString(),
		Email:          uuid.NewString() + "@example.com",
		Role:           role,
		IsActive:       active,
		ApprovalStatus: approval,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// newTestContext builds an echo context for a JSON request, optionally
// authenticated as the given Firebase UID.
func newTestContext(t *testing.T, method, path, body, firebaseUID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if firebaseUID != "" {
		c.Set("firebaseUID", firebaseUID)
	}
	return c, rec
}

func newNotifyHandler(db *gorm.DB) *NotifyHandler {
	profileRepo := repositories.NewPostgresProfileRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	fanoutService := fanout.NewService(profileRepo, notificationRepo, metrics.New(prometheus.NewRegistry()))
	return NewNotifyHandler(profileRepo, fanoutService)
}

func notificationCount(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	return count
}

func TestNotifyUnauthenticated(t *testing.T) {
	db := setupTestDB(t)
	handler := newNotifyHandler(db)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/notify", "", "")
	require.NoError(t, handler.Notify(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotifyForbiddenRoles(t *testing.T) {
	db := setupTestDB(t)
	handler := newNotifyHandler(db)
	target := seedProfile(t, db, models.RoleCustomer, true, models.ApprovalApproved)
	body := `{"targetUserId":"` + target.ID + `","title":"t","message":"m","type":"general"}`

	tests := []struct {
		name    string
		caller  *models.Profile
	}{
		{"customer role", seedProfile(t, db, models.RoleCustomer, true, models.ApprovalApproved)},
		{"inactive admin", seedProfile(t, db, models.RoleAdmin, false, models.ApprovalApproved)},
		{"unapproved merchant", seedProfile(t, db, models.RoleMerchant, true, "pending")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := notificationCount(t, db)

			c, rec := newTestContext(t, http.MethodPost, "/api/v1/notify", body, tt.caller.FirebaseUID)
			require.NoError(t, handler.Notify(c))
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, before, notificationCount(t, db), "rejection must insert no rows")
		})
	}
}

func TestNotifyValidation(t *testing.T) {
	db := setupTestDB(t)
	handler := newNotifyHandler(db)
	admin := seedProfile(t, db, models.RoleAdmin, true, models.ApprovalApproved)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/notify",
		`{"title":"t","message":"m"}`, admin.FirebaseUID)
	require.NoError(t, handler.Notify(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int64(0), notificationCount(t, db), "validation runs before any write")
}

func TestNotifySuccess(t *testing.T) {
	db := setupTestDB(t)
	handler := newNotifyHandler(db)

	merchant := seedProfile(t, db, models.RoleMerchant, true, models.ApprovalApproved)
	target := seedProfile(t, db, models.RoleCustomer, true, models.ApprovalApproved)
	seedProfile(t, db, models.RoleAdmin, true, models.ApprovalApproved)
	seedProfile(t, db, models.RoleSuperadmin, true, models.ApprovalApproved)

	body := `{"targetUserId":"` + target.ID + `","title":"Order","message":"Ready","type":"order","data":{"orderId":"ord-1"}}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/notify", body, merchant.FirebaseUID)
	require.NoError(t, handler.Notify(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
	assert.Equal(t, int64(3), notificationCount(t, db), "target plus two admins")
}
