package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurant-ordering-api/auth"
	"restaurant-ordering-api/config"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/routes"
)

type testEnv struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Verifier *auth.StaticVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	verifier := auth.NewStaticVerifier()
	r := gin.New()
	routes.SetupRoutes(r, db, verifier)

	return &testEnv{DB: db, Router: r, Verifier: verifier}
}

// addUser registers a token with the verifier and creates the matching user
// record. The token doubles as the firebase uid for readability.
func (e *testEnv) addUser(t *testing.T, token string, userType models.UserType) models.User {
	t.Helper()
	e.Verifier.Add(token, auth.Identity{UID: token})

	user := models.User{
		FirebaseUID:  token,
		FullName:     "Test " + token,
		MobileNumber: "+20100" + token,
		Type:         userType,
	}
	require.NoError(t, e.DB.Create(&user).Error)
	return user
}

func (e *testEnv) addProduct(t *testing.T, name string, price float64) models.Product {
	t.Helper()
	category := models.Category{Name: "cat-" + name}
	require.NoError(t, e.DB.Create(&category).Error)
	product := models.Product{Name: name, Price: price, CategoryID: category.ID}
	require.NoError(t, e.DB.Create(&product).Error)
	return product
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
