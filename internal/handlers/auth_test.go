package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	assert := assert.New(t)

	_, token := registerUser(t, "register-login@example.com")
	assert.NotEmpty(token)

	recorder := doRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "Register-Login@Example.com",
		"password": "hunter2secret",
	})

	assert.Equal(http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal("Login successful", body["message"])
	assert.NotEmpty(body["token"])
	assert.Equal(true, body["requiresPetSelection"])

	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing user in login response: %v", body)
	}

	assert.Equal("register-login@example.com", user["email"])
	assert.NotContains(user, "password")
	assert.NotContains(user, "passwordHash")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	assert := assert.New(t)

	registerUser(t, "opaque-login@example.com")

	wrongPassword := doRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "opaque-login@example.com",
		"password": "not-the-password",
	})

	unknownEmail := doRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody-here@example.com",
		"password": "hunter2secret",
	})

	assert.Equal(http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(wrongPassword.Code, unknownEmail.Code)
	assert.Equal(wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginMissingFields(t *testing.T) {
	recorder := doRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "someone@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	assert := assert.New(t)

	registerUser(t, "taken@example.com")

	recorder := doRequest(t, http.MethodPost, "/api/users", "", map[string]interface{}{
		"username": "other",
		"email":    "Taken@example.com",
		"password": "anotherpassword",
	})

	assert.Equal(http.StatusConflict, recorder.Code)
	assert.Equal("Email already exists", decodeBody(t, recorder)["error"])
}

func TestRegisterMissingFields(t *testing.T) {
	recorder := doRequest(t, http.MethodPost, "/api/users", "", map[string]interface{}{
		"username": "nopassword",
		"email":    "nopassword@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMe(t *testing.T) {
	assert := assert.New(t)

	_, token := registerUser(t, "me@example.com")

	recorder := doRequest(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	user := body["user"].(map[string]interface{})
	assert.Equal("me@example.com", user["email"])

	unauthenticated := doRequest(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(http.StatusUnauthorized, unauthenticated.Code)
}
