package view

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-proformas/i18n"
)

var (
	// base.dir is the templates root; empty until first detected.
	base = struct {
		sync.Mutex
		dir string
	}{}
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
	manifest = struct {
		sync.RWMutex
		m      map[string]string
		loaded bool
	}{}

	langResolver  = func(_ *http.Request) string { return i18n.Default }
	themeResolver = func(_ *http.Request) string { return "light" }

	appName    = "Taller Metalúrgico Vallegrande"
	appVersion = "1.0"
)

// layoutBase walks upward from a template path to find the directory that contains layout.html.
// If none is found, it returns the template's own directory.
func layoutBase(mainPath string) string {
	d := filepath.Dir(mainPath)
	for {
		lp := filepath.Join(d, "layout.html")
		if fi, err := os.Stat(lp); err == nil && !fi.IsDir() {
			return d
		}
		p := filepath.Dir(d)
		if p == d { // reached filesystem root
			return filepath.Dir(mainPath)
		}
		d = p
	}
}

// SetLangResolver allows the host app to provide a custom language resolver (e.g., reading from context).
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetThemeResolver allows the host app to provide a custom theme resolver.
func SetThemeResolver(f func(*http.Request) string) {
	if f != nil {
		themeResolver = f
	}
}

// SetAppInfo sets the workshop name and version shown in headers and footers.
func SetAppInfo(name, version string) {
	if name != "" {
		appName = name
	}
	if version != "" {
		appVersion = version
	}
}

func detectBase() string {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			return filepath.Clean(c)
		}
	}
	return "templates"
}

// templateDir returns the templates root, detecting it on first use.
func templateDir() string {
	base.Lock()
	defer base.Unlock()
	if base.dir == "" {
		base.dir = detectBase()
	}
	return base.dir
}

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PadID left-pads a numeric id with zeros to six digits.
func PadID(id string) string {
	if len(id) >= 6 {
		return id
	}
	return strings.Repeat("0", 6-len(id)) + id
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := langResolver(r)
	theme := themeResolver(r)
	return template.FuncMap{
		"t":       func(code string) string { return i18n.T(lang, code) },
		"lang":    func() string { return lang },
		"theme":   func() string { return theme },
		"money":   Money,
		"padID":   PadID,
		"add":     func(a, b int) int { return a + b },
		"year":    func() int { return time.Now().Year() },
		"asset":   func(path string) string { return resolveAsset(path) },
		"appName": func() string { return appName },
		"version": func() string { return appVersion },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// versionedAsset returns /static/<name>?v=<hash> for cache busting.
func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	p := filepath.Join("static", rel)
	b, err := os.ReadFile(p)
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
}

// resolveAsset prefers a hashed filename from manifest.json then falls back to query param versioning.
func resolveAsset(rel string) string {
	m := loadManifest(os.Getenv("DEV") == "1") // reload each request in dev
	if h, ok := m[rel]; ok {
		return "/static/" + h
	}
	return versionedAsset(rel)
}

// loadManifest returns the asset manifest, reading it once unless reload is set.
// The returned map is never mutated after publication.
func loadManifest(reload bool) map[string]string {
	manifest.RLock()
	m, loaded := manifest.m, manifest.loaded
	manifest.RUnlock()
	if loaded && !reload {
		return m
	}

	m = parseManifest()
	manifest.Lock()
	manifest.m, manifest.loaded = m, true
	manifest.Unlock()
	return m
}

func parseManifest() map[string]string {
	mf := filepath.Join("static", "manifest.json")
	b, err := os.ReadFile(mf)
	if err != nil {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	base.Lock()
	base.dir = filepath.Clean(path)
	base.Unlock()
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	base.Lock()
	base.dir = ""
	base.Unlock()
	manifest.Lock()
	manifest.m, manifest.loaded = nil, false
	manifest.Unlock()
}

// parse loads name from dir together with the layout and partials of the
// templates root that owns it.
func parse(dir, name string, funcMap template.FuncMap) (*template.Template, error) {
	mainPath := filepath.Join(dir, name)
	if _, err := os.Stat(mainPath); err != nil {
		candidates := []string{
			filepath.Join("templates", name),
			filepath.Join("../templates", name),
			filepath.Join("../../templates", name),
			filepath.Join("../../../templates", name),
		}
		for _, c := range candidates {
			if fi, e2 := os.Stat(c); e2 == nil && !fi.IsDir() {
				mainPath = c
				break
			}
		}
		if _, err2 := os.Stat(mainPath); err2 != nil {
			return nil, err
		}
	}
	root := layoutBase(mainPath)
	layoutPath := filepath.Join(root, "layout.html")
	if fi, err := os.Stat(layoutPath); err != nil || fi.IsDir() {
		return template.New(name).Funcs(funcMap).ParseFiles(mainPath)
	}

	files := []string{layoutPath, mainPath}
	partials, _ := filepath.Glob(filepath.Join(root, "partials", "*.html"))
	files = append(files, partials...)
	return template.New("layout.html").Funcs(funcMap).ParseFiles(files...)
}

// Render parses and executes a page template inside the layout with shared funcs.
// name should be the filename (e.g., "dashboard.html"). Parsed templates are
// cached unless DEV=1; the func map is rebound per request.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	dir := templateDir()
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}

	funcMap := Funcs(r)
	devMode := os.Getenv("DEV") == "1"

	var t *template.Template
	if !devMode {
		tplCache.RLock()
		cached := tplCache.m[name]
		tplCache.RUnlock()
		if cached != nil {
			clone, err := cached.Clone()
			if err != nil {
				return err
			}
			t = clone.Funcs(funcMap)
		}
	}
	if t == nil {
		parsed, err := parse(dir, name, funcMap)
		if err != nil {
			return err
		}
		if !devMode {
			tplCache.Lock()
			tplCache.m[name] = parsed
			tplCache.Unlock()
			clone, err := parsed.Clone()
			if err != nil {
				return err
			}
			parsed = clone.Funcs(funcMap)
		}
		t = parsed
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
