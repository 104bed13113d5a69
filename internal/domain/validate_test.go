package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&ChatRequest{Message: "hi"}).Validate())

	err := (&ChatRequest{}).Validate()
	require.Error(t, err)
	assert.Equal(t, "message is required", err.Error())
}

func TestAnnouncementValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Announcement
		want string
	}{
		{name: "valid", a: Announcement{Title: "t", Body: "b"}},
		{name: "missing both", a: Announcement{}, want: "title is required; body is required"},
		{name: "missing body", a: Announcement{Title: "t"}, want: "body is required"},
		{name: "title too long", a: Announcement{Title: strings.Repeat("x", 201), Body: "b"}, want: "title exceeds 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.a.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
