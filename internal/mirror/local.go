package mirror

import (
	"context"
	"fmt"
	"strings"

	"github.com/balkashynov/tranquil/internal/db"
)

// LocalStore keeps the mirror in the mirror_documents table of the local
// database. It is the default backend and needs no network.
type LocalStore struct{}

var _ Store = LocalStore{}

func (LocalStore) SetValue(ctx context.Context, path string, value float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	segments := Split(path)
	if len(segments) == 0 {
		return fmt.Errorf("empty mirror path")
	}
	return db.PutMirrorDocument(strings.Join(segments, "/"), value)
}
