// Package news owns the workstation's business operations: it validates
// requests, calls the generator, mutates the content store and builds the
// surface returned to the client.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	surfacecache "newsdesk/internal/cache/surface"
	"newsdesk/internal/content"
	"newsdesk/internal/gateway/repository/artifact"
	contentrepo "newsdesk/internal/gateway/repository/content"
	"newsdesk/internal/gateway/repository/draft"
	"newsdesk/internal/gateway/service/surface"
	"newsdesk/internal/generation"
	"newsdesk/internal/platform/apierr"
	"newsdesk/internal/platform/logger"
	"newsdesk/internal/ui"
)

const (
	msgHeadlinesUpdated = "హెడ్‌లైన్స్ అప్‌డేట్ చేయబడ్డాయి / Headlines updated successfully!"
	msgScriptUpdated    = "స్క్రిప్ట్ అప్‌డేట్ చేయబడింది / Script updated successfully!"
	msgDraftSaved       = "డ్రాఫ్ట్ సేవ్ చేయబడింది / Draft saved successfully!"
	msgApproved         = "న్యూస్ ప్యాకేజ్ ఆమోదించబడింది / News package approved and ready for export!"
)

// Deps are the collaborators of Service. Store and Generator are required.
type Deps struct {
	Store     contentrepo.Store
	Generator generation.Generator
	Drafts    draft.Store
	Artifacts artifact.Store
	Surfaces  *surfacecache.Cache
	Log       *logger.Logger
	Now       func() time.Time
	NewID     func() string
	// RegenerateTimeout bounds one shared regeneration. Zero means
	// defaultRegenerateTimeout.
	RegenerateTimeout time.Duration
}

const defaultRegenerateTimeout = 2 * time.Minute

type Service struct {
	store     contentrepo.Store
	gen       generation.Generator
	drafts    draft.Store
	artifacts artifact.Store
	surfaces  *surfacecache.Cache
	log       *logger.Logger
	now       func() time.Time
	newID     func() string

	regen        singleflight.Group
	regenTimeout time.Duration
}

func New(d Deps) *Service {
	s := &Service{
		store:     d.Store,
		gen:       d.Generator,
		drafts:    d.Drafts,
		artifacts: d.Artifacts,
		surfaces:  d.Surfaces,
		log:       d.Log,
		now:       d.Now,
		newID:     d.NewID,

		regenTimeout: d.RegenerateTimeout,
	}
	if s.regenTimeout <= 0 {
		s.regenTimeout = defaultRegenerateTimeout
	}
	if s.drafts == nil {
		s.drafts = draft.NewMemoryStore()
	}
	if s.artifacts == nil {
		s.artifacts = artifact.NewMemoryStore()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// Generate validates the input, generates a full bundle and stores it under
// a fresh news id.
func (s *Service) Generate(ctx context.Context, input, typ string) (ui.Surface, error) {
	t := content.InputType(strings.TrimSpace(typ))
	if !t.Valid() {
		return ui.Surface{}, apierr.BadRequest("unknown input type %q", typ)
	}
	if issues := content.ValidateInput(input, t); len(issues) > 0 {
		return ui.Surface{}, apierr.BadRequest("%s", content.JoinIssues(issues))
	}
	input = strings.TrimSpace(input)

	b, err := s.gen.Generate(ctx, input, t, "")
	if err != nil {
		s.log.Error("generate failed", "type", t, "error", err)
		return ui.Surface{}, apierr.New(http.StatusInternalServerError, "generation_failed", err)
	}
	b.OriginalInput = input
	b.Type = t

	rec, err := s.store.Put(ctx, s.newID(), b)
	if err != nil {
		return ui.Surface{}, fmt.Errorf("store news: %w", err)
	}
	s.log.Info("news generated", "newsId", rec.ID, "type", t, "headlines", len(b.Headlines))
	return s.surface(rec), nil
}

// Regenerate replaces one section of a stored bundle. The store is read,
// the generator runs unlocked, then the section is written back; a
// concurrent edit of the same bundle in between is overwritten for that
// section only. Identical concurrent requests share one generation.
func (s *Service) Regenerate(ctx context.Context, newsID, section string) (ui.Surface, error) {
	sec, err := content.ParseSection(section)
	if err != nil {
		return ui.Surface{}, apierr.BadRequest("%v", err)
	}
	newsID = strings.TrimSpace(newsID)
	rec, err := s.get(ctx, newsID)
	if err != nil {
		return ui.Surface{}, err
	}

	// The flight outlives whichever caller started it; each caller stops
	// waiting on its own context.
	flight := s.regen.DoChan(newsID+":"+string(sec), func() (any, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.regenTimeout)
		defer cancel()
		fresh, err := s.gen.Generate(gctx, rec.Bundle.OriginalInput, rec.Bundle.Type, sec)
		if err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "generation_failed", err)
		}
		return s.update(gctx, newsID, func(b *content.Bundle) error {
			return b.Replace(sec, fresh)
		})
	})
	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		s.log.Warn("regenerate abandoned by caller", "newsId", newsID, "section", sec, "error", ctx.Err())
		return ui.Surface{}, ctx.Err()
	}
	if res.Err != nil {
		s.log.Error("regenerate failed", "newsId", newsID, "section", sec, "error", res.Err)
		return ui.Surface{}, res.Err
	}
	out := res.Val.(contentrepo.Record)
	s.log.Info("section regenerated", "newsId", newsID, "section", sec, "shared", res.Shared, "revision", out.Revision)
	return s.surface(out), nil
}

func (s *Service) UpdateHeadlines(ctx context.Context, newsID string, headlines []string) (ui.AckPayload, error) {
	_, err := s.update(ctx, newsID, func(b *content.Bundle) error {
		if err := b.SetHeadlines(headlines); err != nil {
			return apierr.BadRequest("%v", err)
		}
		return nil
	})
	if err != nil {
		return ui.AckPayload{}, err
	}
	return ui.AckPayload{Success: true, Message: msgHeadlinesUpdated}, nil
}

func (s *Service) UpdateScript(ctx context.Context, newsID, scriptText string) (ui.AckPayload, error) {
	_, err := s.update(ctx, newsID, func(b *content.Bundle) error {
		b.SetScript(scriptText)
		return nil
	})
	if err != nil {
		return ui.AckPayload{}, err
	}
	return ui.AckPayload{Success: true, Message: msgScriptUpdated}, nil
}

// Save archives a snapshot of the current bundle.
func (s *Service) Save(ctx context.Context, newsID string) (ui.AckPayload, error) {
	rec, err := s.get(ctx, newsID)
	if err != nil {
		return ui.AckPayload{}, err
	}
	now := s.now().UTC()
	if err := s.drafts.Append(ctx, draft.Draft{
		NewsID:   rec.ID,
		Revision: rec.Revision,
		Bundle:   rec.Bundle,
		SavedAt:  now,
	}); err != nil {
		return ui.AckPayload{}, fmt.Errorf("archive draft: %w", err)
	}
	s.log.Info("draft saved", "newsId", rec.ID, "revision", rec.Revision)
	return ui.AckPayload{Success: true, Message: msgDraftSaved, SavedAt: now.Format(time.RFC3339)}, nil
}

// Approve assembles the export data. The JSON form is also kept in the
// artifact store; a failure there is logged and does not fail the approval.
func (s *Service) Approve(ctx context.Context, newsID, format string) (ui.ExportPayload, error) {
	f, err := content.ParseExportFormat(format)
	if err != nil {
		return ui.ExportPayload{}, apierr.BadRequest("%v", err)
	}
	rec, err := s.get(ctx, newsID)
	if err != nil {
		return ui.ExportPayload{}, err
	}
	data := content.NewExportData(rec.ID, rec.Bundle, s.now().UTC())
	raw, err := json.Marshal(data)
	if err != nil {
		return ui.ExportPayload{}, fmt.Errorf("encode export: %w", err)
	}
	if err := s.artifacts.Put(ctx, rec.ID, content.FormatJSON.FileName(rec.ID), raw); err != nil {
		s.log.Warn("export artifact not stored", "newsId", rec.ID, "error", err)
	}
	s.log.Info("news approved", "newsId", rec.ID, "format", f)
	return ui.ExportPayload{
		Success:          true,
		ExportData:       raw,
		Format:           string(f),
		Message:          msgApproved,
		DownloadFileName: f.FileName(rec.ID),
	}, nil
}

func (s *Service) SelectHeadline(ctx context.Context, newsID, headlineID string) (ui.Surface, error) {
	rec, err := s.update(ctx, newsID, func(b *content.Bundle) error {
		if err := b.SelectHeadline(headlineID); err != nil {
			return apierr.BadRequest("%v", err)
		}
		return nil
	})
	if err != nil {
		return ui.Surface{}, err
	}
	return s.surface(rec), nil
}

func (s *Service) ToggleChecklist(ctx context.Context, newsID, itemID string) (ui.Surface, error) {
	rec, err := s.update(ctx, newsID, func(b *content.Bundle) error {
		if _, err := b.ToggleChecklist(itemID); err != nil {
			return apierr.BadRequest("%v", err)
		}
		return nil
	})
	if err != nil {
		return ui.Surface{}, err
	}
	return s.surface(rec), nil
}

// Surface returns the surface for the current bundle.
func (s *Service) Surface(ctx context.Context, newsID string) (ui.Surface, error) {
	rec, err := s.get(ctx, newsID)
	if err != nil {
		return ui.Surface{}, err
	}
	return s.surface(rec), nil
}

// Watch emits the current surface, then a full surface for every later
// change, until ctx ends. Slow readers skip intermediate revisions.
func (s *Service) Watch(ctx context.Context, newsID string) (<-chan ui.Surface, error) {
	newsID = strings.TrimSpace(newsID)
	records, err := s.store.Subscribe(ctx, newsID)
	if err != nil {
		return nil, mapStoreErr(newsID, err)
	}
	cur, err := s.get(ctx, newsID)
	if err != nil {
		return nil, err
	}

	out := make(chan ui.Surface, 1)
	go func() {
		defer close(out)
		last := cur.Revision
		out <- s.surface(cur)
		for rec := range records {
			if rec.Revision <= last {
				continue
			}
			last = rec.Revision
			select {
			case out <- s.surface(rec):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// ExportFile is one stored export of a news package. URL is empty when the
// artifact store cannot hand out direct links.
type ExportFile struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Exports lists the artifacts kept for a bundle by earlier approvals.
func (s *Service) Exports(ctx context.Context, newsID string) ([]ExportFile, error) {
	rec, err := s.get(ctx, newsID)
	if err != nil {
		return nil, err
	}
	names, err := s.artifacts.List(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("list exports of %s: %w", rec.ID, err)
	}
	out := make([]ExportFile, 0, len(names))
	for _, name := range names {
		u, err := s.artifacts.GetURL(ctx, rec.ID, name)
		if err != nil {
			s.log.Warn("export link unavailable", "newsId", rec.ID, "name", name, "error", err)
		}
		out = append(out, ExportFile{Name: name, URL: u})
	}
	return out, nil
}

// Export returns one stored artifact of a bundle.
func (s *Service) Export(ctx context.Context, newsID, name string) ([]byte, error) {
	rec, err := s.get(ctx, newsID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.BadRequest("name is required")
	}
	raw, err := s.artifacts.Get(ctx, rec.ID, name)
	if errors.Is(err, artifact.ErrNotFound) {
		return nil, apierr.NotFound("Export not found")
	}
	if err != nil {
		return nil, fmt.Errorf("read export %s/%s: %w", rec.ID, name, err)
	}
	return raw, nil
}

// Drafts lists the saved snapshots of a bundle, oldest first.
func (s *Service) Drafts(ctx context.Context, newsID string) ([]draft.Draft, error) {
	if _, err := s.get(ctx, newsID); err != nil {
		return nil, err
	}
	return s.drafts.List(ctx, newsID)
}

func (s *Service) surface(rec contentrepo.Record) ui.Surface {
	return s.surfaces.GetOrBuild(rec.ID, rec.Revision, func() ui.Surface {
		out := surface.Build(rec.ID, rec.Bundle)
		out.DataModel.Revision = rec.Revision
		return out
	})
}

func (s *Service) get(ctx context.Context, newsID string) (contentrepo.Record, error) {
	newsID = strings.TrimSpace(newsID)
	if newsID == "" {
		return contentrepo.Record{}, apierr.BadRequest("newsId is required")
	}
	rec, err := s.store.Get(ctx, newsID)
	if err != nil {
		return contentrepo.Record{}, mapStoreErr(newsID, err)
	}
	return rec, nil
}

func (s *Service) update(ctx context.Context, newsID string, fn func(*content.Bundle) error) (contentrepo.Record, error) {
	newsID = strings.TrimSpace(newsID)
	if newsID == "" {
		return contentrepo.Record{}, apierr.BadRequest("newsId is required")
	}
	rec, err := s.store.Update(ctx, newsID, fn)
	if err != nil {
		return contentrepo.Record{}, mapStoreErr(newsID, err)
	}
	return rec, nil
}

func mapStoreErr(newsID string, err error) error {
	if errors.Is(err, contentrepo.ErrNotFound) {
		return apierr.NotFound("News not found")
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	return fmt.Errorf("news %s: %w", newsID, err)
}
