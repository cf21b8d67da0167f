package app

import (
	"fmt"
	"io"
	"strings"

	artifactcache "newsdesk/internal/cache/artifact"
	"newsdesk/internal/gateway/config"
	artifactrepo "newsdesk/internal/gateway/repository/artifact"
	contentrepo "newsdesk/internal/gateway/repository/content"
	draftrepo "newsdesk/internal/gateway/repository/draft"
	"newsdesk/internal/platform/logger"
)

type gatewayStores struct {
	content  contentrepo.Store
	drafts   draftrepo.Store
	artifact artifactrepo.Store
	// exports is the cache in front of artifact, when there is one.
	exports  *artifactcache.CachedStore
	closers  []io.Closer
}

func (s *gatewayStores) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func initStores(cfg *config.Config, log *logger.Logger) (*gatewayStores, error) {
	stores := &gatewayStores{content: contentrepo.NewMemoryStore()}

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		pg, err := draftrepo.NewPostgresStore(dsn)
		if err != nil {
			return nil, err
		}
		stores.drafts = pg
		stores.closers = append(stores.closers, pg)
		log.Info("draft archive: postgres")
	} else {
		stores.drafts = draftrepo.NewMemoryStore()
		log.Info("draft archive: in-memory")
	}

	artifactStore, err := chooseArtifactStore(cfg, artifactrepo.NewMemoryStore(), "in-memory", newArtifactS3StoreFactory(cfg, log), log)
	if err != nil {
		return nil, err
	}
	stores.artifact = artifactStore
	stores.exports, _ = artifactStore.(*artifactcache.CachedStore)
	return stores, nil
}

func newArtifactS3StoreFactory(cfg *config.Config, log *logger.Logger) func() (artifactrepo.Store, error) {
	return func() (artifactrepo.Store, error) {
		s3Cfg := artifactrepo.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		}
		s3Store, err := artifactrepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
		}
		log.Info("artifact store: s3", "bucket", s3Cfg.Bucket, "endpoint", s3Cfg.Endpoint)
		return s3Store, nil
	}
}

func chooseArtifactStore(
	cfg *config.Config,
	fallback artifactrepo.Store,
	fallbackLabel string,
	s3Factory func() (artifactrepo.Store, error),
	log *logger.Logger,
) (artifactrepo.Store, error) {
	var origin artifactrepo.Store
	if cfg.Artifact.CanUseS3() {
		s3Store, err := s3Factory()
		if err != nil {
			return nil, err
		}
		origin = s3Store
	} else {
		if cfg.Artifact.Endpoint != "" {
			log.Warn("artifact store: s3 config incomplete, using fallback", "fallback", fallbackLabel)
		}
		origin = fallback
	}
	if origin == nil {
		return nil, fmt.Errorf("artifact origin store is nil")
	}
	return artifactcache.NewCachedStore(origin, artifactcache.DefaultConfig()), nil
}
