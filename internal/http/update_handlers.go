package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"popup-backend-go/internal/models"
	"popup-backend-go/internal/services"
	"popup-backend-go/internal/updates"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const maxUploadMemory = 32 << 20

const (
	statusUploaded = "uploaded"
	statusNoFile   = "no-file"
	statusSkipped  = "skipped"
	statusFailed   = "failed"
)

// Upload stores every allowed file from the multipart "file" field and redirects back to /control.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	source := services.SourceFor(models.Production, services.OpUpdateUpload)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.Errors.Record(r.Context(), services.Soft(source, "", err))
		redirectControl(w, r, statusFailed)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		redirectControl(w, r, statusNoFile)
		return
	}
	platform := r.FormValue("platform")
	version := r.FormValue("version")

	stored := 0
	for _, header := range files {
		if header.Filename == "" || !updates.Allowed(header.Filename) {
			continue
		}
		file, err := header.Open()
		if err != nil {
			s.Errors.Record(r.Context(), services.Soft(source, "", err))
			redirectControl(w, r, statusFailed)
			return
		}
		saved, err := s.Updates.Save(platform, version, header.Filename, file)
		_ = file.Close()
		if err != nil {
			s.Errors.Record(r.Context(), services.Soft(source, "", services.WrapError(err, header.Filename)))
			redirectControl(w, r, statusFailed)
			return
		}
		log.WithFields(log.Fields{"path": saved.Path, "size": saved.Size, "sha256": saved.SHA256}).Info("update file saved")
		stored++
	}
	if stored == 0 {
		redirectControl(w, r, statusSkipped)
		return
	}
	redirectControl(w, r, statusUploaded)
}

func redirectControl(w http.ResponseWriter, r *http.Request, status string) {
	http.Redirect(w, r, "/control?status="+url.QueryEscape(status), http.StatusSeeOther)
}

func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	page := controlPage{Title: "Updates", Status: r.URL.Query().Get("status")}
	listing, err := s.Updates.List()
	if err != nil {
		s.Errors.Record(r.Context(), services.Soft(services.SourceFor(models.Production, services.OpUpdateControl), "", err))
	}
	page.Windows = listing.Windows
	page.Mac = listing.Mac
	if usage, err := s.Updates.Usage(); err == nil {
		page.Usage = &usage
	} else {
		log.WithError(err).Warn("disk usage unavailable")
	}
	renderPage(w, "control.tmpl", page)
}

func (s *Server) DownloadUpdate(w http.ResponseWriter, r *http.Request) {
	full, err := serveableFile(s.Updates.Root, chi.URLParam(r, "*"))
	if err != nil {
		s.Errors.Record(r.Context(), services.Soft(services.SourceFor(models.Production, services.OpUpdateDownload), "", err))
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}

func (s *Server) Media(w http.ResponseWriter, r *http.Request) {
	full, err := serveableFile(s.Config.MediaPath, chi.URLParam(r, "*"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}

// serveableFile resolves name inside root and checks that it is a regular file.
func serveableFile(root, name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return "", os.ErrNotExist
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New(name + " is a directory")
	}
	return full, nil
}
