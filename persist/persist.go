// Package persist saves the user's photo set and viewer settings between
// sessions using gdata, which picks the platform's app data location.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phanxgames/evergreen"
	"github.com/quasilyte/gdata"
)

const (
	photosKey   = "photos"
	settingsKey = "settings"
)

// Settings is the viewer state stored on disk.
type Settings struct {
	Fullscreen     bool    `json:"fullscreen"`
	ShowHUD        bool    `json:"showHud"`
	CameraAzimuth  float64 `json:"cameraAzimuth"`
	CameraPolar    float64 `json:"cameraPolar"`
	CameraDistance float64 `json:"cameraDistance"`
}

// CaptureSettings records the camera placement with the given display flags.
func CaptureSettings(cam *evergreen.Camera, fullscreen, showHUD bool) Settings {
	return Settings{
		Fullscreen:     fullscreen,
		ShowHUD:        showHUD,
		CameraAzimuth:  cam.Azimuth,
		CameraPolar:    cam.Polar,
		CameraDistance: cam.Distance,
	}
}

// ApplyCamera places cam at the saved orbit. Zero distance means nothing was
// saved and cam is left alone.
func (s Settings) ApplyCamera(cam *evergreen.Camera) {
	if s.CameraDistance <= 0 {
		return
	}
	cam.Azimuth = s.CameraAzimuth
	cam.Polar = s.CameraPolar
	cam.Distance = s.CameraDistance
	cam.Orbit(0, 0) // re-clamp to the camera limits
}

// itemStore is the subset of gdata.Manager the store uses.
type itemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// Store reads and writes saved items. A nil *Store is valid and behaves as
// an empty store that discards writes.
type Store struct {
	items  itemStore
	logger *slog.Logger
}

// Open opens the data store for appName.
func Open(appName string, logger *slog.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("persist: failed to open store: %w", err)
	}
	return newStore(m, logger), nil
}

func newStore(items itemStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{items: items, logger: logger}
}

// savedPhotos is the stored form of a photo set.
type savedPhotos struct {
	URLs []string `json:"urls"`
}

// LoadPhotos returns the saved photo URLs. ok is false when nothing was
// saved, in which case the caller keeps its default set.
func (s *Store) LoadPhotos() (urls []string, ok bool, err error) {
	var saved savedPhotos
	found, err := s.load(photosKey, &saved)
	if err != nil || !found || len(saved.URLs) == 0 {
		return nil, false, err
	}
	return saved.URLs, true, nil
}

// RestorePhotos replaces set with the saved photos, if any.
func (s *Store) RestorePhotos(set *evergreen.PhotoSet) error {
	urls, ok, err := s.LoadPhotos()
	if err != nil || !ok {
		return err
	}
	set.Replace(urls...)
	s.logger.Info("restored photos", "count", len(urls))
	return nil
}

// SavePhotos stores the current URLs of set. The stock set is not saved, so
// a later change to the defaults is picked up.
func (s *Store) SavePhotos(set *evergreen.PhotoSet) error {
	if set.IsDefault() {
		return s.save(photosKey, nil)
	}
	return s.save(photosKey, savedPhotos{URLs: set.URLs()})
}

// LoadSettings returns the saved settings. ok is false when nothing was
// saved.
func (s *Store) LoadSettings() (Settings, bool, error) {
	var st Settings
	found, err := s.load(settingsKey, &st)
	return st, found && err == nil, err
}

// SaveSettings stores st.
func (s *Store) SaveSettings(st Settings) error {
	return s.save(settingsKey, st)
}

func (s *Store) load(key string, v any) (bool, error) {
	if s == nil {
		return false, nil
	}
	data, err := s.items.LoadItem(key)
	if err != nil {
		return false, fmt.Errorf("persist: failed to load %s: %w", key, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("persist: failed to parse %s: %w", key, err)
	}
	return true, nil
}

// save stores v as JSON. A nil v clears the item.
func (s *Store) save(key string, v any) error {
	if s == nil {
		return nil
	}
	var data []byte
	if v != nil {
		var err error
		if data, err = json.Marshal(v); err != nil {
			return fmt.Errorf("persist: failed to encode %s: %w", key, err)
		}
	}
	if err := s.items.SaveItem(key, data); err != nil {
		return fmt.Errorf("persist: failed to save %s: %w", key, err)
	}
	s.logger.Debug("saved item", "key", key, "bytes", len(data))
	return nil
}
