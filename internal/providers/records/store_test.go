package records

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir(), nil)
	n, err := s.Seed()
	require.NoError(t, err)
	require.Equal(t, 13, n)
	return s
}

func TestSeedLaysOutCollections(t *testing.T) {
	s := newSeededStore(t)

	_, err := os.Stat(filepath.Join(s.BasePath(), "dogs", "champion-rex.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.BasePath(), "contacts", "lisa-anderson.json"))
	assert.NoError(t, err)

	again, err := s.Seed()
	require.NoError(t, err)
	assert.Zero(t, again)

	assert.Equal(t, []string{"bella-rose", "champion-rex", "jackson-star", "king-max", "lady-luna"},
		s.Keys(context.Background(), "dogs"))
}

func TestDog(t *testing.T) {
	s := newSeededStore(t)

	tests := []struct {
		id   string
		want string
	}{
		{"champion-rex", "Champion Rex"},
		{"ladyLuna", "Lady Luna"},
		{"studs", "King Max"},
	}
	for _, tt := range tests {
		dog, err := s.Dog(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.want, dog.Name)
	}

	_, err := s.Dog("retired-dog")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Dog("../contacts/john-smith")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProfileFallsBack(t *testing.T) {
	s := newSeededStore(t)

	dog, err := s.Profile("litters")
	require.NoError(t, err)
	assert.Equal(t, "Champion Rex", dog.Name)
	assert.Equal(t, "champion-rex", DogFile("unknown"))
	assert.Equal(t, "king-max", DogFile("kingMax"))
}

func TestDescriptionIsSanitized(t *testing.T) {
	s := New(t.TempDir(), nil)
	require.NoError(t, s.Put("dogs", "scruffy", []byte(`{"name":"Scruffy","description":"Good boy<script>alert(1)</script> <b>loyal</b>"}`)))

	dog, err := s.Dog("scruffy")
	require.NoError(t, err)
	assert.Equal(t, "Good boy <b>loyal</b>", dog.Description)
}

func TestContacts(t *testing.T) {
	s := newSeededStore(t)

	contacts, err := s.Contacts()
	require.NoError(t, err)
	require.Len(t, contacts, 8)
	assert.Equal(t, "1", contacts[0].ID)
	assert.Equal(t, "John Smith", contacts[0].Name)

	record, err := s.Contact("2")
	require.NoError(t, err)
	contact := record["contact"].(map[string]interface{})
	assert.Equal(t, "Sarah Johnson", contact["name"])
	assert.Contains(t, record, "history")

	_, err = s.Contact("99")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestContactsSkipsMissingAndBroken(t *testing.T) {
	s := New(t.TempDir(), nil)
	require.NoError(t, s.Put("contacts", "john-smith", []byte(`{"contact":{"id":"1","name":"John Smith"}}`)))
	require.NoError(t, s.Put("contacts", "emily-davis", []byte(`not json`)))

	contacts, err := s.Contacts()
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "John Smith", contacts[0].Name)

	_, err = s.Contact("3")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPutRejectsBadNames(t *testing.T) {
	s := New(t.TempDir(), nil)
	for _, name := range []string{"", "../x", ".hidden", "a/b"} {
		assert.Error(t, s.Put("dogs", name, []byte("{}")), name)
	}
}
