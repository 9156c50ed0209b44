// Package fs writes pipeline results to disk as JSON files.
package fs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/trialsum"
)

// URLToPath converts an article URL to a relative file path.
// Example: https://example.com/journals/jama/fullarticle/123 → example.com/journals/jama/fullarticle/123.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", trialsum.Errorf(trialsum.EINVALID, "url %q has no host", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	path := strings.TrimPrefix(u.Path, "/")

	// Root or trailing slash → index.json
	if path == "" || strings.HasSuffix(path, "/") {
		return filepath.Join(host, filepath.FromSlash(path), "index.json"), nil
	}

	return filepath.Join(host, filepath.FromSlash(path)) + ".json", nil
}

// MarshalResult renders a result as indented JSON with a trailing newline.
func MarshalResult(result *trialsum.Result) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes data to path atomically. The data goes to a temporary
// file in the same directory, which is then renamed over path, so readers
// never see a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// WriteResult writes result as JSON to path atomically.
func WriteResult(path string, result *trialsum.Result) error {
	data, err := MarshalResult(result)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
