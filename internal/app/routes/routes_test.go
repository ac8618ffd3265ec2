package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/classhub/internal/app/controllers"
	"github.com/yigit/classhub/internal/app/services"
	"github.com/yigit/classhub/internal/middleware"
	"github.com/yigit/classhub/internal/pkg/auth"
	"github.com/yigit/classhub/internal/pkg/metrics"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes", AccessTokenExp: time.Hour})

	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(services.NewAuthService(nil, auth.NewPasswordHasher(0), jwtService, zerolog.Nop()), zerolog.Nop()),
		controllers.NewClassController(services.NewClassService(nil, zerolog.Nop())),
		controllers.NewEnrollmentController(services.NewEnrollmentService(nil, nil, zerolog.Nop())),
		controllers.NewHealthController("ClassHub API is running"),
		middleware.NewAuthMiddleware(jwtService),
	)
	return router
}

func TestSetupRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/classes"},
		{http.MethodPut, "/api/v1/classes/1"},
		{http.MethodDelete, "/api/v1/classes/1"},
		{http.MethodPost, "/api/v1/enroll"},
		{http.MethodGet, "/api/v1/my-classes"},
		{http.MethodDelete, "/api/v1/enroll/1"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "AUTH_008")
		})
	}
}

func TestSetupRouter_HealthAndUnknownRoutes(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "RES_006")
}

func TestSetupSwagger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupSwagger(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ClassHub API")
}

func TestSetupMetrics_ServesScrapeEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	router := gin.New()
	router.Use(middleware.Metrics(m))
	SetupMetrics(router, "/metrics", m.Handler())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `classhub_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}
