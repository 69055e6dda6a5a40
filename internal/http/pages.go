package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"popup-backend-go/internal/updates"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = parsePages()

type controlPage struct {
	Title   string
	Status  string
	Windows []updates.FileInfo
	Mac     []updates.FileInfo
	Usage   *updates.Usage
}

type logsPage struct {
	Title     string
	ViewLimit int
}

var statusMessages = map[string]string{
	statusUploaded: "Files have been uploaded successfully.",
	statusNoFile:   "No file part",
	statusSkipped:  "No selected file",
	statusFailed:   "Upload failed, see server logs.",
}

var funcs = template.FuncMap{
	"statusMessage": func(status string) string { return statusMessages[status] },
	"bytes":         humanBytes,
	"stamp": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
}

// parsePages builds one template set per page, each with the shared layout.
func parsePages() map[string]*template.Template {
	names, err := fs.Glob(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}
	out := map[string]*template.Template{}
	for _, name := range names {
		if path.Base(name) == "layout.tmpl" {
			continue
		}
		t := template.Must(template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl", name))
		out[path.Base(name)] = t
	}
	return out
}

func renderPage(w http.ResponseWriter, name string, data interface{}) {
	t, ok := pages[name]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.WithError(err).WithField("page", name).Error("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func humanBytes(value interface{}) string {
	var n float64
	switch v := value.(type) {
	case int64:
		n = float64(v)
	case uint64:
		n = float64(v)
	default:
		return ""
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for n >= 1024 && i < len(units)-1 {
		n /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", n, units[i])
	}
	return fmt.Sprintf("%.1f %s", n, units[i])
}
