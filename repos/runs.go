package repos

import (
	"context"
	"fmt"
	"github.com/gofrs/uuid"
)

// StartRun records the start of a load and returns its id. Every row a load
// writes is tagged with the id so a run can be inspected or deleted as a
// unit.
func (r *Repo) StartRun(ctx context.Context, source string) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate run id: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO load_runs (id, source) VALUES ($1, $2)`, id, source)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// DeleteRun removes a run. Its point pairs go with it; features it loaded
// are kept but lose their run id.
func (r *Repo) DeleteRun(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM load_runs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
