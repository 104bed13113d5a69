package relationship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

var alex = domain.ContactRecord{Name: "Alex", Relationship: "best friend"}

func TestResolveNoContacts(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Resolve("who is my best friend", nil))
	assert.Nil(t, Resolve("who is my best friend", []domain.ContactRecord{}))
}

func TestResolveFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      string
		contacts []domain.ContactRecord
		contains string
	}{
		{name: "best friend", msg: "who is my best friend", contacts: []domain.ContactRecord{alex}, contains: "Alex"},
		{name: "bff synonym", msg: "remind me who my BFF is", contacts: []domain.ContactRecord{alex}, contains: "Alex"},
		{
			name:     "mum to mother",
			msg:      "can I talk to my mum?",
			contacts: []domain.ContactRecord{alex, {Name: "Grace", Relationship: "Mother"}},
			contains: "your mother is Grace",
		},
		{
			name: "saved synonym",
			msg:  "who's my mother",
			contacts: []domain.ContactRecord{
				{Name: "Grace", Relationship: "mom"},
			},
			contains: "Grace",
		},
		{
			name: "several matches",
			msg:  "my sister",
			contacts: []domain.ContactRecord{
				{Name: "Mia", Relationship: "sister"},
				{Name: "Lena", Relationship: "older sister"},
			},
			contains: "your sisters are Mia and Lena",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.msg, tt.contacts)
			require.NotNil(t, got)
			assert.Equal(t, domain.ModeCheckIn, got.Mode)
			assert.Contains(t, got.MessageForUser, tt.contains)
			assert.True(t, got.Complete())
			assert.NotEmpty(t, got.SuggestedActions)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()

	contacts := []domain.ContactRecord{
		{Name: "Grace", Relationship: "grandmother"},
		alex,
		{Relationship: "counselor"},
		{Name: "Sam", Relationship: "brother"},
	}

	got := Resolve("who is my mother?", contacts)
	require.NotNil(t, got)
	assert.True(t, got.Complete())
	assert.Contains(t, got.MessageForUser, "I don't have your mother saved.")
	assert.Contains(t, got.MessageForUser, "Grace (grandmother); Alex (best friend); your counselor")
	assert.NotContains(t, got.MessageForUser, "Sam")

	got = Resolve("how do I get through exams", contacts)
	require.NotNil(t, got)
	assert.Contains(t, got.MessageForUser, "I don't have that relationship saved.")
}

func TestWordBoundaries(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Labels("I love my broccoli and my basis of work"))
	assert.Empty(t, Labels("grandmotherly advice"))
	assert.Equal(t, []string{"grandmother"}, Labels("my grandma says hi"))
	assert.Equal(t, []string{"mother", "father"}, Labels("Mom and Dad are visiting"))
}

func TestIsQuery(t *testing.T) {
	t.Parallel()

	assert.True(t, IsQuery("who is my best friend"))
	assert.True(t, IsQuery("Who's my emergency contact?"))
	assert.True(t, IsQuery("I miss my roomie"))
	assert.False(t, IsQuery("I want to end it"))
	assert.False(t, IsQuery("help me plan my week"))
}
