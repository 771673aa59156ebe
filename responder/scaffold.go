package responder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/bavarder-cli/bavarder/internal/script"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/bavarder-cli/bavarder/network"
	"github.com/bavarder-cli/bavarder/responder/custom"
	"github.com/bavarder-cli/bavarder/util"
	"github.com/bavarder-cli/bavarder/where"
)

// Scaffold holds the fields of a generated responder script.
type Scaffold struct {
	Name   string
	URL    string
	Author string
	AskFn  string
}

// Path returns the script location of the custom responder called name.
func Path(name string) string {
	return filepath.Join(where.Responders(), util.SanitizeFilename(name)+custom.Extension)
}

// Generate writes a new Lua responder from the built-in template and returns its path.
func Generate(s Scaffold) (string, error) {
	s.AskFn = constant.AskFn

	funcMap := template.FuncMap{
		"repeat": strings.Repeat,
		"plus":   func(a, b int) int { return a + b },
		"max":    util.Max[int],
	}

	tmpl, err := template.New("responder").Funcs(funcMap).Parse(constant.ResponderTemplate)
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	if err := tmpl.Execute(&b, s); err != nil {
		return "", err
	}

	target := Path(s.Name)
	if exists, _ := filesystem.API().Exists(target); exists {
		return "", fmt.Errorf("responder %s already exists at %s", s.Name, target)
	}

	if err := filesystem.API().WriteFile(target, b.Bytes(), 0644); err != nil {
		return "", err
	}

	return target, nil
}

// Remove deletes the custom responder called name.
func Remove(name string) error {
	target := Path(name)
	if err := filesystem.API().Remove(target); err != nil {
		return err
	}

	script.Forget(target)
	return nil
}

// Install downloads a Lua responder from rawURL into the responders directory.
// It reports whether the file changed; an identical local copy is left alone.
func Install(ctx context.Context, rawURL string) (target string, updated bool, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("parse url: %w", err)
	}

	name := util.FileStem(path.Base(parsed.Path))
	if name == "" || name == "." || name == "/" {
		return "", false, fmt.Errorf("cannot derive a responder name from %s", rawURL)
	}

	target = Path(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return target, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return target, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return target, false, fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	remote, err := io.ReadAll(resp.Body)
	if err != nil {
		return target, false, err
	}

	if local, err := filesystem.API().ReadFile(target); err == nil && sha256.Sum256(local) == sha256.Sum256(remote) {
		log.Infof("responder %s is up to date", name)
		return target, false, nil
	}

	if err := filesystem.WriteAtomic(target, remote, 0644); err != nil {
		return target, false, err
	}

	script.Forget(target)
	log.Infof("installed responder %s from %s", name, rawURL)
	return target, true, nil
}
