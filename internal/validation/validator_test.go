package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleReq struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	err := v.Validate(&sampleReq{Username: "alice", Email: "a@x.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(&sampleReq{Username: "al", Email: "not-an-email"})
	require.Error(t, err)

	verr, ok := err.(*Errors)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Equal(t, "is required", verr.Fields["password"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
}

func TestValidateOptionalPointerFields(t *testing.T) {
	type patchReq struct {
		Price *float64 `json:"price" validate:"omitempty,gte=0"`
	}
	v := New()
	assert.NoError(t, v.Validate(&patchReq{}))

	neg := -1.0
	err := v.Validate(&patchReq{Price: &neg})
	require.Error(t, err)
	verr, ok := err.(*Errors)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "price")
}
