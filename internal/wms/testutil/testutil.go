package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_wms"
	CookieName = "wms_session"
	// RemoteSecret 假远端签发 token 用的密钥，本服务不校验签名
	RemoteSecret = "wms-remote-test-secret"
)

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	if root := projectRoot(); root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SetupTestDB opens postgres with an isolated schema; skips when the database is unreachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "127.0.0.1"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "wms"),
		getEnv("DB_PASSWORD", "wms123"),
		getEnv("DB_NAME", "wms_web"),
	)
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if err := setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName)).Error; err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if sqlSetup, _ := setupDB.DB(); sqlSetup != nil {
		sqlSetup.Close()
	}

	db, err := gorm.Open(postgres.Open(fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			if sqlClean, _ := cleanDB.DB(); sqlClean != nil {
				sqlClean.Close()
			}
		}
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// GenerateTestToken creates a token shaped like the one the remote API issues
func GenerateTestToken(userID int64, role string, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(userID),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString([]byte(RemoteSecret))
	return s
}

// SeedSession logs a user in directly and returns the session id
func SeedSession(t *testing.T, mgr *session.Manager, id int64, role string) *session.Session {
	t.Helper()
	user := entity.User{ID: id, Username: fmt.Sprintf("user%d", id), Role: role, Status: entity.UserStatusActive}
	sess, err := mgr.Begin(context.Background(), GenerateTestToken(id, role, time.Hour), user)
	if err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	return sess
}

// DoRequest executes an HTTP request against the test router, sessionID is sent as cookie
func DoRequest(r *gin.Engine, method, path string, body interface{}, sessionID string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sessionID})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
