package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUser(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "get-user@example.com")

	recorder := doRequest(t, http.MethodGet, userPath(userID, ""), token, nil)
	assert.Equal(http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(true, body["requiresPetSelection"])

	user := body["user"].(map[string]interface{})
	assert.Equal("get-user@example.com", user["email"])
	assert.Equal(float64(0), user["streak"])
	assert.NotContains(user, "password")

	petStats := user["petStats"].(map[string]interface{})
	assert.Nil(petStats["type"])
	assert.Equal("happy", petStats["status"])
	assert.Equal(float64(1), petStats["level"])

	preferences := user["preferences"].(map[string]interface{})
	assert.Equal(true, preferences["notifications"])
	assert.Equal("light", preferences["theme"])
}

func TestGetUserErrors(t *testing.T) {
	assert := assert.New(t)

	_, token := registerUser(t, "get-user-errors@example.com")

	malformed := doRequest(t, http.MethodGet, "/api/users/not-a-number", token, nil)
	assert.Equal(http.StatusBadRequest, malformed.Code)

	missing := doRequest(t, http.MethodGet, "/api/users/999999", token, nil)
	assert.Equal(http.StatusNotFound, missing.Code)
}

func TestPetSelection(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "pet-selection@example.com")

	t.Run("Unselected", func(t *testing.T) {
		recorder := doRequest(t, http.MethodGet, userPath(userID, "/pet-selection"), token, nil)
		assert.Equal(http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Nil(body["type"])
		assert.Equal(true, body["requiresPetSelection"])
	})

	t.Run("RejectsUnknownType", func(t *testing.T) {
		recorder := doRequest(t, http.MethodPatch, userPath(userID, "/pet-selection"), token, map[string]interface{}{
			"type": "bear",
		})
		assert.Equal(http.StatusBadRequest, recorder.Code)
		assert.Equal("type must be fish or seal", decodeBody(t, recorder)["error"])

		// Stored state stays untouched
		check := doRequest(t, http.MethodGet, userPath(userID, "/pet-selection"), token, nil)
		assert.Nil(decodeBody(t, check)["type"])
	})

	t.Run("NormalizesAndSelects", func(t *testing.T) {
		recorder := doRequest(t, http.MethodPatch, userPath(userID, "/pet-selection"), token, map[string]interface{}{
			"type": "  FISH ",
		})
		assert.Equal(http.StatusOK, recorder.Code)

		body := decodeBody(t, recorder)
		assert.Equal(false, body["requiresPetSelection"])

		check := decodeBody(t, doRequest(t, http.MethodGet, userPath(userID, "/pet-selection"), token, nil))
		assert.Equal("fish", check["type"])
		assert.Equal(false, check["requiresPetSelection"])
	})

	t.Run("Reselectable", func(t *testing.T) {
		recorder := doRequest(t, http.MethodPatch, userPath(userID, "/pet-selection"), token, map[string]interface{}{
			"type": "seal",
		})
		assert.Equal(http.StatusOK, recorder.Code)

		check := decodeBody(t, doRequest(t, http.MethodGet, userPath(userID, "/pet-selection"), token, nil))
		assert.Equal("seal", check["type"])
	})

	t.Run("MissingType", func(t *testing.T) {
		recorder := doRequest(t, http.MethodPatch, userPath(userID, "/pet-selection"), token, map[string]interface{}{})
		assert.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateUserAllowList(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "update-user@example.com")

	recorder := doRequest(t, http.MethodPatch, userPath(userID, ""), token, map[string]interface{}{
		"username": "newme",
		"streak":   4,
	})
	assert.Equal(http.StatusOK, recorder.Code)

	body := decodeBody(t, doRequest(t, http.MethodGet, userPath(userID, ""), token, nil))
	user := body["user"].(map[string]interface{})
	assert.Equal("newme", user["username"])
	assert.Equal(float64(4), user["streak"])

	t.Run("EmptyPatch", func(t *testing.T) {
		recorder := doRequest(t, http.MethodPatch, userPath(userID, ""), token, map[string]interface{}{})
		assert.Equal(http.StatusBadRequest, recorder.Code)
		assert.Equal("No valid fields to update", decodeBody(t, recorder)["error"])
	})

	t.Run("PasswordRotation", func(t *testing.T) {
		recorder := doRequest(t, http.MethodPatch, userPath(userID, ""), token, map[string]interface{}{
			"password": "rotatedsecret",
		})
		assert.Equal(http.StatusOK, recorder.Code)

		login := doRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"email":    "update-user@example.com",
			"password": "rotatedsecret",
		})
		assert.Equal(http.StatusOK, login.Code)

		stale := doRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"email":    "update-user@example.com",
			"password": "hunter2secret",
		})
		assert.Equal(http.StatusUnauthorized, stale.Code)
	})

	t.Run("EmailConflict", func(t *testing.T) {
		registerUser(t, "already-used@example.com")

		recorder := doRequest(t, http.MethodPatch, userPath(userID, ""), token, map[string]interface{}{
			"email": "already-used@example.com",
		})
		assert.Equal(http.StatusConflict, recorder.Code)
	})
}

func TestDeleteUserFreesEmail(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "reusable@example.com")

	deleted := doRequest(t, http.MethodDelete, userPath(userID, ""), token, nil)
	assert.Equal(http.StatusOK, deleted.Code)

	// The address is unused again, so registration must succeed
	newID, newToken := registerUser(t, "reusable@example.com")
	assert.NotEqual(userID, newID)

	// And an existing account can take it over via the allow-list patch
	otherID, otherToken := registerUser(t, "email-taker@example.com")
	doRequest(t, http.MethodDelete, userPath(newID, ""), newToken, nil)

	recorder := doRequest(t, http.MethodPatch, userPath(otherID, ""), otherToken, map[string]interface{}{
		"email": "reusable@example.com",
	})
	assert.Equal(http.StatusOK, recorder.Code)
}

func TestDeleteUserCascades(t *testing.T) {
	assert := assert.New(t)

	userID, token := registerUser(t, "delete-cascade@example.com")
	_, observerToken := registerUser(t, "delete-observer@example.com")

	grapes := doRequest(t, http.MethodPost, "/api/grapes", token, map[string]interface{}{
		"userId": userID,
		"gentle": "slept in",
	})
	assert.Equal(http.StatusCreated, grapes.Code)

	cogtri := doRequest(t, http.MethodPost, "/api/cogtri", token, map[string]interface{}{
		"userId":    userID,
		"situation": "missed the bus",
	})
	assert.Equal(http.StatusCreated, cogtri.Code)

	deleted := doRequest(t, http.MethodDelete, userPath(userID, ""), token, nil)
	assert.Equal(http.StatusOK, deleted.Code)

	// The deleted account and its journals stop being visible
	assert.Equal(http.StatusNotFound, doRequest(t, http.MethodGet, userPath(userID, ""), observerToken, nil).Code)

	grapesList := decodeList(t, doRequest(t, http.MethodGet, fmt.Sprintf("/api/grapes/user/%d", userID), observerToken, nil))
	assert.Empty(grapesList)

	cogtriList := decodeList(t, doRequest(t, http.MethodGet, fmt.Sprintf("/api/cogtri/user/%d", userID), observerToken, nil))
	assert.Empty(cogtriList)
}
