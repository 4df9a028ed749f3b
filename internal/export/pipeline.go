// Package export turns finished raw captures into persisted files: encode
// to the configured format, optionally seal, record metadata. Any step
// failing aborts the whole export and removes partial output so a corrupt
// file is never left as the final artifact.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/datastore"
	"github.com/audiodash/audiodash-go/internal/errors"
	"github.com/audiodash/audiodash-go/internal/logging"
	"github.com/audiodash/audiodash-go/internal/seal"
)

// Kind distinguishes the two capture modes in filenames and metadata.
type Kind string

const (
	KindClip  Kind = "clip"
	KindPanic Kind = "panic"
)

// RawCapture is the immutable, finalized output of a capture session.
type RawCapture struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the capture length in seconds.
func (rc RawCapture) Duration() float64 {
	if rc.SampleRate == 0 {
		return 0
	}
	return float64(len(rc.Samples)) / float64(rc.SampleRate)
}

// Pipeline persists raw captures and hands their metadata to the store.
type Pipeline struct {
	settings *conf.Settings
	store    datastore.Interface
	log      *slog.Logger
}

// New creates an export pipeline. store may be nil, in which case no
// metadata records are emitted (used by tooling).
func New(settings *conf.Settings, store datastore.Interface) *Pipeline {
	return &Pipeline{
		settings: settings,
		store:    store,
		log:      logging.ForModule("export"),
	}
}

// Export persists a raw capture. When sealer is non-nil the encoded bytes
// are sealed and only the encrypted container reaches durable storage.
// Returns the final file path.
func (p *Pipeline) Export(raw RawCapture, kind Kind, sealer seal.Sealer) (string, error) {
	if kind == KindPanic && sealer == nil {
		// hard requirement: panic output must never be written in the clear
		return "", errors.New(seal.ErrMissingKeyMaterial).
			Component("export").
			Category(errors.CategoryKeyMaterial).
			Context("kind", string(kind)).
			Build()
	}

	dir := p.settings.Export.ClipPath
	if kind == KindPanic {
		dir = p.settings.Export.PanicPath
	}
	dir = conf.GetBasePath(dir)

	timestamp := time.Now().Format("20060102_150405")
	baseName := fmt.Sprintf("%s_%s.%s", kind, timestamp, p.settings.Export.Type)

	// The encoded file is final for plain exports and an intermediate
	// artifact for sealed ones.
	encodedPath := filepath.Join(dir, baseName)
	finalPath := encodedPath
	if sealer != nil {
		encodedPath = filepath.Join(dir, "temp_"+baseName)
		finalPath = filepath.Join(dir, baseName+".enc")
	}

	if err := p.encode(raw, encodedPath); err != nil {
		os.Remove(encodedPath)
		return "", errors.New(err).
			Component("export").
			Category(errors.CategoryCodec).
			Context("format", p.settings.Export.Type).
			Build()
	}

	if sealer != nil {
		if err := p.sealFile(encodedPath, finalPath, sealer); err != nil {
			os.Remove(encodedPath)
			os.Remove(finalPath)
			return "", err
		}
		// remove the plaintext intermediate
		os.Remove(encodedPath)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		os.Remove(finalPath)
		return "", errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", finalPath).
			Build()
	}

	if p.store != nil {
		recording := &datastore.Recording{
			Filename:      filepath.Base(finalPath),
			FilePath:      finalPath,
			RecordingType: string(kind),
			Duration:      raw.Duration(),
			FileSize:      info.Size(),
			IsEncrypted:   sealer != nil,
		}
		if err := p.store.Save(recording); err != nil {
			os.Remove(finalPath)
			return "", errors.New(err).
				Component("export").
				Category(errors.CategoryDatabase).
				Context("filename", recording.Filename).
				Build()
		}
	}

	p.log.Info("recording exported",
		"path", finalPath,
		"kind", string(kind),
		"duration", raw.Duration(),
		"size", info.Size(),
		"encrypted", sealer != nil)

	return finalPath, nil
}

// encode writes the capture to path in the configured format.
func (p *Pipeline) encode(raw RawCapture, path string) error {
	if p.settings.Export.Type == "wav" {
		return SaveWAV(path, raw.Samples, raw.SampleRate)
	}
	pcm := SamplesToPCM(raw.Samples)
	return encodeWithFFmpeg(pcm, path, &p.settings.Export, raw.SampleRate)
}

// sealFile reads the encoded plaintext, seals it and writes the container
// to finalPath with an atomic rename.
func (p *Pipeline) sealFile(plainPath, finalPath string, sealer seal.Sealer) error {
	plaintext, err := os.ReadFile(plainPath)
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", plainPath).
			Build()
	}

	container, err := sealer.Seal(plaintext)
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryCrypto).
			Build()
	}

	tempPath := finalPath + tempExt
	if err := os.WriteFile(tempPath, container, 0o600); err != nil {
		os.Remove(tempPath)
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", tempPath).
			Build()
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", finalPath).
			Build()
	}
	return nil
}
