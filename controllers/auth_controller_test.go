package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginPayloadCarriesUsername(t *testing.T) {
	payload := loginPayload("tok123", "admin")

	assert.Equal(t, "tok123", payload["access_token"])
	assert.Equal(t, "bearer", payload["token_type"])
	assert.Equal(t, "admin", payload["username"])
}
