// BYZRA ⸻ internal/session/session.go
// one loaded image at a time, replaced wholesale

// Package session owns the image currently being looked at: its bytes, its
// decoded tags and the views built from them. A Controller holds at most one
// LoadedImage; loading another or resetting swaps the whole state in one
// step, and operations on the same controller never overlap.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go4.org/syncutil"

	"exifdrop/internal/export"
	"exifdrop/internal/formats"
	"exifdrop/internal/present"
	"exifdrop/internal/tagset"
)

// ErrNoImage is returned by exports when nothing is loaded.
var ErrNoImage = errors.New("no image loaded")

// InvalidInputError rejects a file whose declared type is not image/*.
type InvalidInputError struct {
	Name     string
	MIMEType string
}

func (e *InvalidInputError) Error() string {
	mt := e.MIMEType
	if mt == "" {
		mt = "unknown type"
	}
	return fmt.Sprintf("%s is not an image (%s)", e.Name, mt)
}

// Logger is the levelled logging the controller reports through.
type Logger interface {
	Debug(message string) error
	Info(message string) error
	Warning(message string) error
	Error(message string) error
}

type nopLogger struct{}

func (nopLogger) Debug(string) error   { return nil }
func (nopLogger) Info(string) error    { return nil }
func (nopLogger) Warning(string) error { return nil }
func (nopLogger) Error(string) error   { return nil }

// Options configure a Controller. Zero fields get defaults.
type Options struct {
	Decoder   tagset.Decoder
	Presenter *present.Presenter
	Export    export.Options
	Logger    Logger
}

// current subject of the session; never mutated once stored
type state struct {
	image   *LoadedImage
	tags    tagset.TagSet
	views   present.Views
	elapsed time.Duration
}

// Controller serialises work on one session.
type Controller struct {
	gate      *syncutil.Gate
	cur       atomic.Pointer[state]
	decoder   tagset.Decoder
	presenter *present.Presenter
	exportOpt export.Options
	log       Logger
}

func New(opts Options) *Controller {
	c := &Controller{
		gate:      syncutil.NewGate(1),
		decoder:   opts.Decoder,
		presenter: opts.Presenter,
		exportOpt: opts.Export,
		log:       opts.Logger,
	}
	if c.decoder == nil {
		c.decoder = tagset.ExifDecoder{}
	}
	if c.presenter == nil {
		c.presenter = present.NewPresenter(nil)
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	return c
}

// Snapshot is a read-only look at the loaded state.
type Snapshot struct {
	Image   *LoadedImage
	Tags    tagset.TagSet
	Views   present.Views
	Elapsed time.Duration
}

// ProcessingTime renders Elapsed in seconds with two decimals.
func (s Snapshot) ProcessingTime() string {
	return fmt.Sprintf("Processed in %.2fs", s.Elapsed.Seconds())
}

func (st *state) snapshot() Snapshot {
	return Snapshot{Image: st.image, Tags: st.tags, Views: st.views, Elapsed: st.elapsed}
}

// Load replaces the session's image. A declared type outside image/* is
// rejected with *InvalidInputError and leaves the current state alone.
// Unreadable metadata is not an error: the views show their empty state.
func (c *Controller) Load(name, mimeType string, data []byte) (Snapshot, error) {
	if !formats.IsImageType(mimeType) {
		err := &InvalidInputError{Name: name, MIMEType: mimeType}
		c.log.Warning(fmt.Sprintf("[!] Rejected %s: %v", name, err))
		return Snapshot{}, err
	}

	c.gate.Start()
	defer c.gate.Done()

	start := time.Now()
	img := newLoadedImage(name, mimeType, data)
	if cfg, format, err := formats.DecodeConfig(img.data); err == nil {
		img.Width, img.Height, img.Format = cfg.Width, cfg.Height, format
	} else {
		c.log.Debug(fmt.Sprintf("No dimensions for %s: %v", name, err))
	}

	tags, err := c.decoder.Decode(img.data)
	if err != nil {
		var de *tagset.DecodeError
		if !errors.As(err, &de) {
			c.log.Warning(fmt.Sprintf("[!] Metadata read failed for %s: %v", name, err))
		} else {
			c.log.Debug(fmt.Sprintf("No metadata in %s: %v", name, err))
		}
		tags = tagset.TagSet{}
	}

	st := &state{
		image: img,
		tags:  tags,
		views: c.presenter.Present(tags),
	}
	st.elapsed = time.Since(start)
	c.cur.Store(st)

	c.log.Info(fmt.Sprintf("Loaded %s (%s, %s, %d tags)", name, img.MIMEType, img.HumanSize(), tags.Len()))
	return st.snapshot(), nil
}

// LoadFile reads path and loads it with a type sniffed from its content,
// falling back to the extension.
func (c *Controller) LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var mimeType string
	if ft := formats.DetectBytes(data); ft.MimeType != "" {
		mimeType = ft.MimeType
	} else if ft, err := formats.DetectFile(path); err == nil {
		mimeType = ft.MimeType
	}
	return c.Load(filepath.Base(path), mimeType, data)
}

// Current returns the loaded state, if any.
func (c *Controller) Current() (Snapshot, bool) {
	st := c.cur.Load()
	if st == nil {
		return Snapshot{}, false
	}
	return st.snapshot(), true
}

// Views is the presentation of the loaded image; the empty views when
// nothing is loaded.
func (c *Controller) Views() present.Views {
	if st := c.cur.Load(); st != nil {
		return st.views
	}
	return c.presenter.Present(tagset.TagSet{})
}

// Reset drops the loaded image.
func (c *Controller) Reset() {
	c.gate.Start()
	defer c.gate.Done()
	if old := c.cur.Swap(nil); old != nil {
		c.log.Debug(fmt.Sprintf("Reset, released %s", old.image.Name))
	}
}

// ExportOriginal hands back the loaded bytes untouched.
func (c *Controller) ExportOriginal() (export.Artifact, error) {
	st := c.cur.Load()
	if st == nil {
		return export.Artifact{}, ErrNoImage
	}
	return export.Original(st.image), nil
}

// ExportStripped re-encodes the loaded image and checks the result for
// surviving tags. A failure leaves the session as it was.
func (c *Controller) ExportStripped() (export.Artifact, export.Residue, error) {
	c.gate.Start()
	defer c.gate.Done()

	st := c.cur.Load()
	if st == nil {
		return export.Artifact{}, export.Residue{}, ErrNoImage
	}

	opts := c.exportOpt
	opts.Orientation = orientation(st.tags)
	a, err := export.Stripped(st.image, opts)
	if err != nil {
		c.log.Error(fmt.Sprintf("[X] %v", err))
		return export.Artifact{}, export.Residue{}, err
	}

	r := export.Verify(a, c.decoder)
	if !r.Clean() {
		c.log.Warning(fmt.Sprintf("[!] %s still carries %d tags: %v", a.Name, len(r.Tags), r.Tags))
	}
	c.log.Info(fmt.Sprintf("Stripped %s -> %s (%d bytes)", st.image.Name, a.Name, len(a.Data)))
	return a, r, nil
}

func orientation(tags tagset.TagSet) int {
	t, ok := tags.Get("Orientation")
	if !ok {
		return 0
	}
	if v, ok := t.Value.(int64); ok {
		return int(v)
	}
	return 0
}
