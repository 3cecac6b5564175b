package records

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// DogFile maps a tree key to its record file, falling back to the default
// profile for unknown keys
func DogFile(key string) string {
	if file, ok := DogFiles[key]; ok {
		return file
	}
	return DefaultDogFile
}

// read loads a raw record
func (s *Store) read(collection, file string) ([]byte, error) {
	if err := validFile(file); err != nil {
		return nil, err
	}
	k := key(collection, file)
	if !s.d.Has(k) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	data, err := s.d.Read(k)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", k, err)
	}
	return data, nil
}

// Dog loads a dog profile by record file or tree key
func (s *Store) Dog(id string) (*Dog, error) {
	file := id
	if mapped, ok := DogFiles[id]; ok {
		file = mapped
	}

	data, err := s.read(collectionDogs, file)
	if err != nil {
		return nil, err
	}

	var dog Dog
	if err := sonic.Unmarshal(data, &dog); err != nil {
		return nil, fmt.Errorf("failed to parse dog %s: %w", file, err)
	}
	dog.Description = s.sanitizer.Sanitize(dog.Description)
	return &dog, nil
}

// Profile loads the profile shown in a window for a tree key. Unknown keys
// get the default profile.
func (s *Store) Profile(key string) (*Dog, error) {
	return s.Dog(DogFile(key))
}

// Contact loads the full contact record for a contact id
func (s *Store) Contact(id string) (map[string]interface{}, error) {
	file, ok := ContactFiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: contact %s", ErrNotFound, id)
	}

	data, err := s.read(collectionContacts, file)
	if err != nil {
		return nil, err
	}

	var record map[string]interface{}
	if err := sonic.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse contact %s: %w", file, err)
	}
	return record, nil
}

// Contacts lists the contact entry of every mapped record that exists, in id
// order. Unreadable records are logged and skipped.
func (s *Store) Contacts() ([]Contact, error) {
	ids := make([]string, 0, len(ContactFiles))
	for id := range ContactFiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	contacts := make([]Contact, 0, len(ids))
	for _, id := range ids {
		data, err := s.read(collectionContacts, ContactFiles[id])
		if err != nil {
			continue
		}
		var record struct {
			Contact Contact `json:"contact"`
		}
		if err := sonic.Unmarshal(data, &record); err != nil {
			s.logger.Warn("Skipping unreadable contact", zap.String("file", ContactFiles[id]), zap.Error(err))
			continue
		}
		record.Contact.Notes = s.sanitizer.Sanitize(record.Contact.Notes)
		contacts = append(contacts, record.Contact)
	}
	return contacts, nil
}

// Keys lists the record files of a collection
func (s *Store) Keys(ctx context.Context, collection string) []string {
	prefix := collection + "/"
	var files []string
	for k := range s.d.KeysPrefix(prefix, ctx.Done()) {
		files = append(files, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(files)
	return files
}

// Put writes a raw record
func (s *Store) Put(collection, file string, data []byte) error {
	if err := validFile(file); err != nil {
		return err
	}
	if err := s.d.Write(key(collection, file), data); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, file, err)
	}
	return nil
}
