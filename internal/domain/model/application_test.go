package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateApplicationRequest_Validate(t *testing.T) {
	valid := func() CreateApplicationRequest {
		return CreateApplicationRequest{
			Email:     "Jo.Doe@Example.com ",
			Password:  "pw",
			FirstName: "Jo",
			LastName:  "Doe",
			VisaType:  "student",
		}
	}

	t.Run("normalizes email", func(t *testing.T) {
		req := valid()
		require.NoError(t, req.Validate())
		assert.Equal(t, "jo.doe@example.com", req.Email)
	})

	t.Run("missing email", func(t *testing.T) {
		req := valid()
		req.Email = "  "
		assert.Error(t, req.Validate())
	})

	t.Run("malformed email", func(t *testing.T) {
		req := valid()
		req.Email = "not-an-email"
		assert.Error(t, req.Validate())
	})

	t.Run("missing password", func(t *testing.T) {
		req := valid()
		req.Password = ""
		assert.Error(t, req.Validate())
	})

	t.Run("missing visa type", func(t *testing.T) {
		req := valid()
		req.VisaType = " "
		assert.Error(t, req.Validate())
	})
}

func TestUpdateApplicationRequest_Validate(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		req := UpdateApplicationRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		bad := ApplicationStatus("archived")
		req := UpdateApplicationRequest{Status: &bad}
		assert.Error(t, req.Validate())
	})

	t.Run("valid status", func(t *testing.T) {
		ok := ApplicationStatusApproved
		req := UpdateApplicationRequest{Status: &ok}
		assert.NoError(t, req.Validate())
	})

	t.Run("negative step", func(t *testing.T) {
		step := -1
		req := UpdateApplicationRequest{CurrentStep: &step}
		assert.Error(t, req.Validate())
	})

	t.Run("email is normalized", func(t *testing.T) {
		email := " USER@X.com"
		req := UpdateApplicationRequest{Email: &email}
		require.NoError(t, req.Validate())
		assert.Equal(t, "user@x.com", *req.Email)
	})
}

func TestParseApplicationStatus(t *testing.T) {
	s, ok := ParseApplicationStatus(" In_Review ")
	require.True(t, ok)
	assert.Equal(t, ApplicationStatusInReview, s)

	_, ok = ParseApplicationStatus("unknown")
	assert.False(t, ok)
}
