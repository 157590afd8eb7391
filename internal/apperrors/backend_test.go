package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want BackendErrorKind
	}{
		{"email exists code", errors.New("graphql: EMAIL_ALREADY_EXISTS for jane@example.com"), KindEmailExists},
		{"email update forbidden code", errors.New("graphql: CANT_UPDATE_EMAIL"), KindEmailUpdateForbidden},
		{"wrapped upstream message", fmt.Errorf("update customer: %w", errors.New("EMAIL_ALREADY_EXISTS")), KindEmailExists},
		{"unrelated message", errors.New("connection refused"), KindUnknown},
		{"typed error keeps its kind", NewBackendError(KindEmailUpdateForbidden, "portal access"), KindEmailUpdateForbidden},
		{"typed error wrapped", fmt.Errorf("store: %w", NewBackendError(KindEmailExists, "dup")), KindEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestBackendError_UnwrapAndMessage(t *testing.T) {
	base := errors.New("EMAIL_ALREADY_EXISTS")
	be := Classify(base)

	assert.ErrorIs(t, be, base)
	assert.Equal(t, "This email address is already used by another customer", be.UserMessage())
	assert.Equal(t, "The operation failed, please try again", Classify(errors.New("boom")).UserMessage())
}
