package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/roomkit/roombook/internal/audit"
	"github.com/roomkit/roombook/internal/handler"
	"github.com/roomkit/roombook/internal/middleware"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/session"
	"github.com/roomkit/roombook/internal/testutil"
)

const (
	testSecret     = "test-secret-key-for-handlers"
	testCookieName = "roombook_session"
)

// testApp wires the full HTTP surface against in-memory SQLite and
// miniredis, mirroring the production router.
type testApp struct {
	db     *testutil.TestDatabase
	redis  *testutil.TestRedis
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })
	testRedis := testutil.SetupTestRedis(t)
	t.Cleanup(func() { testRedis.Teardown(t) })

	auditLog, err := audit.Open(filepath.Join(t.TempDir(), "moderation.log"))
	if err != nil {
		t.Fatalf("Failed to open audit log: %v", err)
	}
	t.Cleanup(func() { auditLog.Close() })

	redisClient := redis.NewClient(&redis.Options{Addr: testRedis.Server.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	userRepo := repository.NewUserRepository(testDB.DB)
	roomRepo := repository.NewRoomRepository(testDB.DB)
	eventRepo := repository.NewEventRepository(testDB.DB)

	revoker := session.NewRevoker(redisClient)
	authService := service.NewAuthService(userRepo, revoker, testSecret, time.Hour, "development")
	moderationService := service.NewModerationService(userRepo, auditLog)
	roomService := service.NewRoomService(roomRepo)
	eventService := service.NewEventService(eventRepo, roomRepo, nil, false)

	cookies := session.NewCookieManager(testCookieName, false)

	authHandler := handler.NewAuthHandler(authService, cookies)
	roomHandler := handler.NewRoomHandler(roomService)
	eventHandler := handler.NewEventHandler(eventService)
	adminHandler := handler.NewAdminHandler(moderationService, eventService)

	router := gin.New()
	router.Use(middleware.Authenticate(authService, cookies))

	api := router.Group("/api")
	{
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/rooms", roomHandler.List)
		api.POST("/rooms", middleware.RequireAdmin(), roomHandler.Create)
		api.GET("/events", eventHandler.List)

		user := api.Group("")
		user.Use(middleware.RequireUser())
		{
			user.POST("/events", eventHandler.Create)
			user.PATCH("/events/:id", eventHandler.Update)
			user.DELETE("/events/:id", eventHandler.Delete)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/approve", adminHandler.ApproveUser)
			admin.POST("/users/:id/reject", adminHandler.RejectUser)
			admin.POST("/users/:id/soft-delete", adminHandler.SoftDeleteUser)
			admin.POST("/users/:id/restore", adminHandler.RestoreUser)

			admin.GET("/events", adminHandler.ListEvents)
			admin.POST("/events/:id/cancel", adminHandler.CancelEvent)
			admin.POST("/events/:id/restore", adminHandler.RestoreEvent)
			admin.DELETE("/events/:id", adminHandler.DeleteEvent)
		}
	}

	testutil.CleanDatabase(t, testDB.DB)

	return &testApp{
		db:     testDB,
		redis:  testRedis,
		router: router,
	}
}

// request performs one call against the router. A nil body sends no
// payload; a non-nil body is JSON-encoded.
func (app *testApp) request(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers an account and returns its session cookie.
func (app *testApp) signupAndLogin(t *testing.T, email, password string) *http.Cookie {
	w := app.request(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Test User",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Signup failed with status %d: %s", w.Code, w.Body.String())
	}
	return app.login(t, email, password)
}

// login authenticates and returns the session cookie.
func (app *testApp) login(t *testing.T, email, password string) *http.Cookie {
	w := app.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", w.Code, w.Body.String())
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("Login response did not set the session cookie")
	return nil
}

// adminCookie seeds an approved admin directly and logs it in.
func (app *testApp) adminCookie(t *testing.T) *http.Cookie {
	if _, err := testutil.CreateTestAdmin(app.db.DB, "admin@example.com", "Admin123456"); err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}
	return app.login(t, "admin@example.com", "Admin123456")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return response
}
