// Package dispatch turns activated surface actions into gateway calls or
// local handlers and routes the replies.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"newsdesk/internal/content"
	"newsdesk/internal/platform/logger"
	"newsdesk/internal/thumbnail"
	"newsdesk/internal/ui"
)

var (
	// ErrInFlight is returned when an identical post action is still pending.
	ErrInFlight = errors.New("dispatch: identical action already in flight")
	// ErrNoThumbnail is returned by downloadThumbnail before any generate.
	ErrNoThumbnail = errors.New("dispatch: no thumbnail generated")
)

// FormSnapshot is a read-only view of the rendered form fields.
type FormSnapshot interface {
	Values(prefix string) []string
	Value(id string) (string, bool)
	CheckedValue(name string) (string, bool)
}

// PreviewPane shows a freshly drawn thumbnail.
type PreviewPane interface {
	ShowPreview(png []byte) error
}

// Renderer replaces the whole workstation with a new surface.
type Renderer interface {
	RenderSurface(s ui.Surface) error
}

const (
	msgActionFailed       = "Action failed. Please try again."
	msgActionDone         = "Action completed successfully!"
	msgThumbnailGenerated = "థంబ్‌నెయిల్ జనరేట్ చేయబడింది! / Thumbnail generated successfully!"
	msgThumbnailSaved     = "థంబ్‌నెయిల్ డౌన్‌లోడ్ చేయబడింది! / Thumbnail downloaded!"
	msgThumbnailMissing   = "దయచేసి మొదట థంబ్‌నెయిల్ జనరేట్ చేయండి / Please generate thumbnail first"
)

type Options struct {
	Transport Transport
	Form      FormSnapshot
	Preview   PreviewPane
	Renderer  Renderer
	Notices   *Notices
	Sink      Sink
	Thumbnail *thumbnail.Renderer
	Log       *logger.Logger
	Now       func() time.Time
}

type Dispatcher struct {
	transport Transport
	form      FormSnapshot
	preview   PreviewPane
	renderer  Renderer
	notices   *Notices
	sink      Sink
	thumb     *thumbnail.Renderer
	exporters map[content.ExportFormat]Exporter
	custom    map[string]func(context.Context) error
	log       *logger.Logger
	now       func() time.Time

	mu        sync.Mutex
	inFlight  map[string]struct{}
	lastThumb []byte
	written   []string
}

func New(o Options) *Dispatcher {
	d := &Dispatcher{
		transport: o.Transport,
		form:      o.Form,
		preview:   o.Preview,
		renderer:  o.Renderer,
		notices:   o.Notices,
		sink:      o.Sink,
		thumb:     o.Thumbnail,
		exporters: Exporters(),
		log:       o.Log,
		now:       o.Now,
		inFlight:  make(map[string]struct{}),
	}
	if d.notices == nil {
		d.notices = NewNotices()
	}
	if d.sink == nil {
		d.sink = NewMemorySink()
	}
	if d.log == nil {
		d.log = logger.Nop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	d.custom = map[string]func(context.Context) error{
		ui.HandlerGenerateThumbnail: d.generateThumbnail,
		ui.HandlerDownloadThumbnail: d.downloadThumbnail,
	}
	return d
}

func (d *Dispatcher) Notices() *Notices { return d.notices }

// Written lists every file handed to the sink, in order.
func (d *Dispatcher) Written() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.written...)
}

// Dispatch runs one action. Failures are reported as notices and also
// returned; the rendered surface is left alone unless a new one arrives.
func (d *Dispatcher) Dispatch(ctx context.Context, a ui.Action) error {
	switch a.Type {
	case ui.ActionCustom:
		fn, ok := d.custom[a.Handler]
		if !ok {
			d.log.Warn("unknown custom handler", "handler", a.Handler)
			return nil
		}
		return fn(ctx)
	case ui.ActionPost:
		return d.post(ctx, a)
	default:
		d.log.Warn("ignoring action of unknown type", "url", a.URL, "handler", a.Handler)
		return nil
	}
}

func (d *Dispatcher) post(ctx context.Context, a ui.Action) error {
	if d.transport == nil {
		return errors.New("dispatch: no transport configured")
	}
	key := a.Key()
	d.mu.Lock()
	if _, busy := d.inFlight[key]; busy {
		d.mu.Unlock()
		d.log.Debug("dropping duplicate action", "url", a.URL)
		return ErrInFlight
	}
	d.inFlight[key] = struct{}{}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.inFlight, key)
		d.mu.Unlock()
	}()

	body := d.harvest(a)
	d.log.Info("action triggered", "url", a.URL)
	status, raw, err := d.transport.Post(ctx, a.URL, body)
	if err != nil {
		d.log.Error("action failed", "url", a.URL, "error", err)
		d.notices.Show(LevelError, msgActionFailed)
		return err
	}
	resp, err := ui.DecodeResponse(status, raw)
	if err != nil {
		d.log.Error("undecodable reply", "url", a.URL, "status", status, "error", err)
		d.notices.Show(LevelError, msgActionFailed)
		return err
	}
	return d.route(a, resp)
}

// harvest copies the body template and adds the form values the endpoint
// expects.
func (d *Dispatcher) harvest(a ui.Action) map[string]any {
	body := a.BodyCopy()
	if d.form == nil {
		return body
	}
	switch a.URL {
	case ui.EndpointUpdateHeadlines:
		headlines := d.form.Values(ui.HeadlineFieldPrefix)
		if headlines == nil {
			headlines = []string{}
		}
		body["headlines"] = headlines
	case ui.EndpointUpdateScript:
		if v, ok := d.form.Value(ui.ScriptEditorID); ok {
			body["scriptText"] = v
		}
	case ui.EndpointApprove:
		if v, ok := d.form.CheckedValue(ui.ExportFormatGroup); ok {
			body["format"] = v
		}
	}
	return body
}

func (d *Dispatcher) route(a ui.Action, resp ui.Response) error {
	switch resp.Kind {
	case ui.ResponseSurface:
		if d.renderer == nil {
			return nil
		}
		return d.renderer.RenderSurface(resp.Surface)
	case ui.ResponseAck:
		msg := resp.Ack.Message
		if msg == "" {
			msg = msgActionDone
		}
		d.notices.Show(LevelSuccess, msg)
		return nil
	case ui.ResponseExport:
		d.notices.Show(LevelSuccess, resp.Export.Message)
		return d.export(resp.Export)
	case ui.ResponseError:
		d.log.Warn("action rejected", "url", a.URL, "status", resp.Status, "message", resp.Message)
		d.notices.Show(LevelError, resp.Message)
		return &RemoteError{Status: resp.Status, Message: resp.Message}
	}
	return fmt.Errorf("dispatch: unhandled response kind %s", resp.Kind)
}

// RemoteError is an error reply from the gateway.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
}

func (d *Dispatcher) export(p ui.ExportPayload) error {
	format, err := content.ParseExportFormat(p.Format)
	if err != nil {
		d.notices.Show(LevelError, "Download failed: "+err.Error())
		return err
	}
	var data content.ExportData
	if err := json.Unmarshal(p.ExportData, &data); err != nil {
		d.notices.Show(LevelError, "Download failed: "+err.Error())
		return fmt.Errorf("decode export data: %w", err)
	}
	paths, err := d.exporters[format].Export(data, p.DownloadFileName, d.sink)
	if err != nil {
		d.log.Error("export failed", "format", format, "error", err)
		d.notices.Show(LevelError, "Download failed: "+err.Error())
		return err
	}
	if format == content.FormatPDF {
		d.notices.Show(LevelInfo, "PDF preview opened. Use Print dialog to save as PDF.")
	}
	d.record(paths...)
	return nil
}

func (d *Dispatcher) record(paths ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.written = append(d.written, paths...)
}

func (d *Dispatcher) generateThumbnail(context.Context) error {
	spec := thumbnail.Spec{}
	if d.form != nil {
		spec.Background, _ = d.form.Value(ui.ThumbnailBgColorID)
		spec.Headline, _ = d.form.Value(ui.ThumbnailHeadlineID)
		spec.Foreground, _ = d.form.Value(ui.ThumbnailTextColorID)
	}
	var (
		png []byte
		err error
	)
	if d.thumb != nil {
		png, err = d.thumb.Render(spec)
	} else {
		png, err = thumbnail.Render(spec)
	}
	if err != nil {
		d.log.Error("thumbnail generation failed", "error", err)
		d.notices.Show(LevelError, "Thumbnail generation failed: "+err.Error())
		return err
	}
	if d.preview != nil {
		if err := d.preview.ShowPreview(png); err != nil {
			d.log.Warn("thumbnail preview unavailable", "error", err)
		}
	}
	d.mu.Lock()
	d.lastThumb = png
	d.mu.Unlock()
	d.notices.Show(LevelSuccess, msgThumbnailGenerated)
	return nil
}

func (d *Dispatcher) downloadThumbnail(context.Context) error {
	d.mu.Lock()
	png := d.lastThumb
	d.mu.Unlock()
	if png == nil {
		d.notices.Show(LevelError, msgThumbnailMissing)
		return ErrNoThumbnail
	}
	name := fmt.Sprintf("telugu-news-thumbnail-%d.png", d.now().UnixMilli())
	path, err := d.sink.Write(name, png)
	if err != nil {
		d.notices.Show(LevelError, "Thumbnail download failed: "+err.Error())
		return err
	}
	d.record(path)
	d.notices.Show(LevelSuccess, msgThumbnailSaved)
	return nil
}
