package records

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

const (
	collectionDogs     = "dogs"
	collectionContacts = "contacts"
	extension          = ".json"
)

// DefaultDogFile is served when a profile window names an unknown dog
const DefaultDogFile = "champion-rex"

// DogFiles maps tree keys to dog record files
var DogFiles = map[string]string{
	"championRex": "champion-rex",
	"ladyLuna":    "lady-luna",
	"kingMax":     "king-max",
	"bellaRose":   "bella-rose",
	"jacksonStar": "jackson-star",
	"studs":       "king-max",
}

// ContactFiles maps contact ids to contact record files
var ContactFiles = map[string]string{
	"1": "john-smith",
	"2": "sarah-johnson",
	"3": "michael-brown",
	"4": "emily-davis",
	"5": "robert-wilson",
	"6": "jennifer-taylor",
	"7": "david-miller",
	"8": "lisa-anderson",
}

// ShowResult is one show placing
type ShowResult struct {
	Show        string `json:"show"`
	Achievement string `json:"achievement"`
}

// Breeding is the availability of a dog for breeding
type Breeding struct {
	Available       bool `json:"available"`
	PreviousLitters int  `json:"previousLitters"`
}

// Dog is a dog profile record
type Dog struct {
	Name                 string       `json:"name"`
	Breed                string       `json:"breed"`
	DateOfBirth          string       `json:"dateOfBirth"`
	Registration         string       `json:"registration"`
	Color                string       `json:"color"`
	Weight               float64      `json:"weight"`
	Height               float64      `json:"height"`
	HealthTests          []string     `json:"healthTests"`
	VaccinationsUpToDate bool         `json:"vaccinationsUpToDate"`
	ShowResults          []ShowResult `json:"showResults"`
	DNATests             []string     `json:"dnaTests"`
	Breeding             Breeding     `json:"breeding"`
	Description          string       `json:"description"`
	ProfileImage         string       `json:"profileImage,omitempty"`
	GalleryImages        []string     `json:"galleryImages,omitempty"`
}

// Contact is an address book entry
type Contact struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Category string `json:"category"`
	Notes    string `json:"notes,omitempty"`
}

// Store serves dog and contact records from a diskv tree laid out as
// <base>/dogs/<file>.json and <base>/contacts/<file>.json
type Store struct {
	d         *diskv.Diskv
	basePath  string
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// New opens a record store rooted at basePath
func New(basePath string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath:  basePath,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// BasePath returns the directory records are read from
func (s *Store) BasePath() string {
	return s.basePath
}

// key makes `collection/file`
func key(collection, file string) string {
	return collection + "/" + file
}

func keyToPathTransform(k string) *diskv.PathKey {
	parts := strings.Split(k, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1] + extension,
	}
}

func pathToKeyTransform(pk *diskv.PathKey) string {
	file := strings.TrimSuffix(pk.FileName, extension)
	if len(pk.Path) == 0 {
		return file
	}
	return strings.Join(pk.Path, "/") + "/" + file
}

// validFile rejects names that would escape the collection directory
func validFile(file string) error {
	if file == "" || file != filepath.Base(file) || strings.ContainsAny(file, `/\`) || strings.HasPrefix(file, ".") {
		return fmt.Errorf("%w: invalid name %q", ErrNotFound, file)
	}
	return nil
}
