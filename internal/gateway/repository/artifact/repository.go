package artifact

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
)

// Store persists approved export artifacts per news id.
type Store interface {
	Put(ctx context.Context, newsID, name string, content []byte) error
	Get(ctx context.Context, newsID, name string) ([]byte, error)
	GetURL(ctx context.Context, newsID, name string) (string, error)
	List(ctx context.Context, newsID string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

func normalize(newsID, name string) (string, string, error) {
	newsID = strings.TrimSpace(newsID)
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if newsID == "" {
		return "", "", fmt.Errorf("news id is required")
	}
	if name == "" {
		return "", "", fmt.Errorf("artifact name is required")
	}
	return newsID, name, nil
}

func objectKey(newsID, name string) string {
	return newsID + "/" + name
}

// ContentType guesses the media type of an export from its extension.
func ContentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
