package lineview

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const homePrefix = "~/"

// expandHome replaces a leading ~/ with the home directory. A doubled ~/~/
// escapes to the literal relative path ~/...
func expandHome(p string, home func() (string, error)) (string, error) {
	rest, ok := strings.CutPrefix(p, homePrefix)
	if !ok {
		return p, nil
	}
	if strings.HasPrefix(rest, homePrefix) {
		return rest, nil
	}
	dir, err := home()
	if err != nil || dir == "" {
		return "", errors.New("could not find user home")
	}
	return filepath.Join(dir, rest), nil
}

// resolve expands and canonicalizes file relative to dir. The error text is
// meant to be shown to the user.
func (o *options) resolve(dir, file string) (string, error) {
	expanded, err := expandHome(file, o.homeDir)
	if err != nil {
		return "", err
	}
	path, err := o.provider.Resolve(dir, expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.New("file not found")
		}
		return "", fmt.Errorf("could not canonicalize path, %w", withoutPath(err))
	}
	return path, nil
}

// withoutPath strips the path from fs errors; warnings already name the file.
func withoutPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
