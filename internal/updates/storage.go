package updates

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/disk"
)

const (
	PlatformWindows = "win32"
	PlatformMac     = "darwin"

	DefaultPlatform = "unknown-platform"
	DefaultVersion  = "1.0.0"
)

var (
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	ErrEmptyFilename       = errors.New("no selected file")
	ErrInvalidSegment      = errors.New("invalid path segment")
)

var allowedExtensions = map[string]bool{
	"exe":      true,
	"dmg":      true,
	"zip":      true,
	"blockmap": true,
	"yml":      true,
}

// Allowed reports whether the filename carries one of the distributable extensions.
func Allowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// Storage keeps update artifacts under Root/<platform>/<version>/<file>.
type Storage struct {
	Root string
}

func New(root string) *Storage {
	return &Storage{Root: root}
}

func (s *Storage) EnsurePlatforms() error {
	for _, platform := range []string{PlatformWindows, PlatformMac} {
		if err := os.MkdirAll(filepath.Join(s.Root, platform), 0755); err != nil {
			return err
		}
	}
	return nil
}

type SavedFile struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Save stores one uploaded file. Spaces in the name become hyphens; when the target already
// exists the file is stored as <base>-<version><ext> instead.
func (s *Storage) Save(platform, version, filename string, body io.Reader) (SavedFile, error) {
	if filename == "" {
		return SavedFile{}, ErrEmptyFilename
	}
	if !Allowed(filename) {
		return SavedFile{}, ErrExtensionNotAllowed
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	if version == "" {
		version = DefaultVersion
	}
	name := strings.ReplaceAll(path.Base(filepath.ToSlash(filename)), " ", "-")
	for _, segment := range []string{platform, version, name} {
		if !validSegment(segment) {
			return SavedFile{}, ErrInvalidSegment
		}
	}

	folder := filepath.Join(s.Root, platform, version)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return SavedFile{}, err
	}
	target := filepath.Join(folder, name)
	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(name)
		target = filepath.Join(folder, strings.TrimSuffix(name, ext)+"-"+version+ext)
	}

	tmp := filepath.Join(folder, "."+uuid.NewString()+".part")
	file, err := os.Create(tmp)
	if err != nil {
		return SavedFile{}, err
	}
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hasher), body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return SavedFile{}, err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return SavedFile{}, err
	}

	rel, err := filepath.Rel(s.Root, target)
	if err != nil {
		return SavedFile{}, err
	}
	return SavedFile{Path: filepath.ToSlash(rel), Size: size, SHA256: hex.EncodeToString(hasher.Sum(nil))}, nil
}

func validSegment(segment string) bool {
	if segment == "" || segment == "." || segment == ".." {
		return false
	}
	return !strings.ContainsAny(segment, `/\`) && !strings.ContainsRune(segment, 0)
}

type FileInfo struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

type Listing struct {
	Windows []FileInfo `json:"windows"`
	Mac     []FileInfo `json:"mac"`
}

// List walks the store and splits files by the platform directory they live under, newest first.
func (s *Storage) List() (Listing, error) {
	listing := Listing{Windows: []FileInfo{}, Mac: []FileInfo{}}
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		item := FileInfo{Path: rel, Size: info.Size(), ModTime: info.ModTime()}
		dir := path.Dir(rel)
		switch {
		case strings.Contains(dir, PlatformWindows):
			listing.Windows = append(listing.Windows, item)
		case strings.Contains(dir, PlatformMac):
			listing.Mac = append(listing.Mac, item)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return listing, nil
	}
	if err != nil {
		return Listing{}, err
	}
	newestFirst(listing.Windows)
	newestFirst(listing.Mac)
	return listing, nil
}

func newestFirst(items []FileInfo) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ModTime.After(items[j].ModTime)
	})
}

type Usage struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"usedPercent"`
}

// Usage reports disk usage of the volume holding the store, falling back to "/".
func (s *Storage) Usage() (Usage, error) {
	stat, err := disk.Usage(s.Root)
	if err != nil {
		stat, err = disk.Usage("/")
		if err != nil {
			return Usage{}, err
		}
	}
	return Usage{Total: stat.Total, Used: stat.Used, Free: stat.Free, UsedPercent: stat.UsedPercent}, nil
}
