package history

import "github.com/starford/lineview/internal/models"

// Recorder stores and lists command runs. Consumers depend on this interface
// rather than *DB so that history can be disabled or faked.
type Recorder interface {
	Record(run models.Run) error
	Get(id string) (*models.Run, error)
	List(limit, offset int) ([]models.Run, int, error)
	Search(query string, limit int) ([]models.Run, error)
}

// Verify *DB satisfies Recorder at compile time.
var _ Recorder = (*DB)(nil)
