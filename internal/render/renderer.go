// Package render turns a status table snapshot into the published HTML
// document. Output is always replaced whole: the document is written to a
// temp file and renamed into place so a concurrent reader never sees a
// partial page.
package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fleetstat/fleetstat/internal/errors"
	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/status"
)

//go:embed template.html
var pageTemplate string

// Renderer converts snapshots of the status table into the output artifact.
// Render calls are serialized; overlapping triggers from concurrent pollers
// queue on the mutex instead of interleaving writes.
type Renderer struct {
	mu       sync.Mutex
	path     string
	refresh  int
	tmpl     *template.Template
	log      logger.Logger
	latest   []byte
	rendered uint64
}

// pageData is the template context.
type pageData struct {
	Content    template.HTML
	RenderedAt string
	Refresh    int
}

// New creates a renderer publishing to path. refresh is the meta-refresh
// interval hint embedded in the page, in seconds. An empty path disables
// file output; the rendered bytes are still available via Latest.
func New(path string, refresh time.Duration, log logger.Logger) (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRender,
			"Failed to parse page template", "")
	}

	seconds := int(refresh.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	if log == nil {
		log = logger.Noop()
	}

	return &Renderer{
		path:    path,
		refresh: seconds,
		tmpl:    tmpl,
		log:     log,
	}, nil
}

// Render converts the snapshot into the HTML document and publishes it.
// The page timestamp is the latest update time in the snapshot, not wall
// clock, so rendering the same snapshot twice is byte-identical.
func (r *Renderer) Render(snap []status.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.build(snap)
	if err != nil {
		return err
	}
	r.latest = doc
	r.rendered++

	if r.path == "" {
		return nil
	}
	return writeAtomic(r.path, doc)
}

// Latest returns the most recently rendered document, or nil if nothing
// has been rendered yet. The returned slice must not be modified.
func (r *Renderer) Latest() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Count returns how many renders have completed.
func (r *Renderer) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendered
}

func (r *Renderer) build(snap []status.Entry) ([]byte, error) {
	var body bytes.Buffer
	var newest time.Time

	for _, e := range snap {
		if e.Text == "" {
			continue
		}
		body.WriteString(AnsiToHTML(e.Text))
		if !bytes.HasSuffix(body.Bytes(), []byte("\n")) {
			body.WriteByte('\n')
		}
		if e.LastUpdated.After(newest) {
			newest = e.LastUpdated
		}
	}

	data := pageData{
		Content:    template.HTML(body.String()), //nolint:gosec // body is escaped by AnsiToHTML
		RenderedAt: newest.Format("2006/01/02 15:04:05 MST"),
		Refresh:    r.refresh,
	}

	var out bytes.Buffer
	if err := r.tmpl.Execute(&out, data); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRender,
			"Failed to render status page", "")
	}
	return out.Bytes(), nil
}

// writeAtomic replaces path with data via a temp file in the same
// directory and a rename, so readers only ever observe complete documents.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".fleetstat-*.html")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Failed to create temp file in "+dir,
			"Check the output directory exists and is writable")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrRender,
			"Failed to write status page", "")
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrRender,
			"Failed to set permissions on status page", "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrRender,
			"Failed to close status page", "")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrRender,
			"Failed to publish status page to "+path, "")
	}
	return nil
}
