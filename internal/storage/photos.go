package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/terraincognita07/gymdesk/internal/security"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidFilename = errors.New("invalid photo filename")
	ErrPhotoNotFound   = errors.New("photo not found")
)

const generatedNameLength = 16

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// PhotoDirectory keeps uploaded member photos in one flat directory. Files are
// named after the sanitised upload name, so a later upload with the same name
// replaces the earlier file. Names that sanitise to nothing get a random base.
type PhotoDirectory struct {
	root       string
	extensions map[string]struct{}
}

func NewPhotoDirectory(root string, extensions []string) (*PhotoDirectory, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return nil, errors.New("at least one photo extension is required")
	}

	return &PhotoDirectory{root: root, extensions: allowed}, nil
}

func (dir *PhotoDirectory) Root() string {
	return dir.root
}

func (dir *PhotoDirectory) Allowed(filename string) bool {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(filename)), "."))
	if extension == "" {
		return false
	}
	_, ok := dir.extensions[extension]
	return ok
}

// Save stores content under the sanitised upload name and reports whether an
// existing file with that name was replaced.
func (dir *PhotoDirectory) Save(filename string, content io.Reader) (string, bool, error) {
	stored, err := dir.storedName(filename)
	if err != nil {
		return "", false, err
	}

	temp, err := os.CreateTemp(dir.root, ".upload-*")
	if err != nil {
		return "", false, fmt.Errorf("create temp photo: %w", err)
	}
	tempPath := temp.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, err := io.Copy(temp, content); err != nil {
		_ = temp.Close()
		return "", false, fmt.Errorf("write photo: %w", err)
	}
	if err := temp.Close(); err != nil {
		return "", false, fmt.Errorf("close photo: %w", err)
	}

	target := filepath.Join(dir.root, stored)
	_, statErr := os.Lstat(target)
	replaced := statErr == nil
	if err := os.Rename(tempPath, target); err != nil {
		return "", false, fmt.Errorf("store photo: %w", err)
	}
	return stored, replaced, nil
}

// storedName sanitises filename. When nothing but the extension survives, as
// with "фото.jpg", a random base name is generated instead.
func (dir *PhotoDirectory) storedName(filename string) (string, error) {
	if !dir.Allowed(filename) {
		return "", ErrInvalidFilename
	}

	stored := SanitizeFilename(filename)
	extension := filepath.Ext(stored)
	if dir.Allowed(stored) && strings.TrimSuffix(stored, extension) != "" {
		return stored, nil
	}

	base, err := security.RandomString(generatedNameLength, security.AlphanumericAlphabet)
	if err != nil {
		return "", fmt.Errorf("generate photo name: %w", err)
	}
	return base + "." + strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(filename)), ".")), nil
}

func (dir *PhotoDirectory) Remove(stored string) error {
	path, err := dir.Path(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path resolves a stored filename to a file inside the directory. Names that
// would not survive sanitising unchanged are rejected.
func (dir *PhotoDirectory) Path(stored string) (string, error) {
	if stored == "" || SanitizeFilename(stored) != stored {
		return "", ErrInvalidFilename
	}
	return filepath.Join(dir.root, stored), nil
}

func (dir *PhotoDirectory) Open(stored string) (string, error) {
	path, err := dir.Path(stored)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrPhotoNotFound
	}
	return path, nil
}

// SanitizeFilename reduces an uploaded name to a safe ASCII basename: accents
// are folded, path separators become spaces, runs of whitespace become one
// underscore and anything outside [A-Za-z0-9_.-] is dropped.
func SanitizeFilename(filename string) string {
	decomposed := norm.NFKD.String(filename)
	ascii := make([]rune, 0, len(decomposed))
	for _, char := range decomposed {
		if char < 128 {
			ascii = append(ascii, char)
		}
	}

	cleaned := string(ascii)
	cleaned = strings.NewReplacer("/", " ", `\`, " ").Replace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), "_")
	cleaned = unsafeFilenameChars.ReplaceAllString(cleaned, "")
	return strings.Trim(cleaned, "._")
}
