package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/jmoiron/sqlx"
)

// NoteQuery is the read side for notes. The author name is joined in on
// every read so renamed accounts show their current name.
type NoteQuery struct {
	db *sqlx.DB
}

func NewNoteQuery(db *sqlx.DB) *NoteQuery {
	return &NoteQuery{db: db}
}

const listNotesQuery = `
SELECT n.id,
       n.grievance_id,
       n.user_id,
       COALESCE(NULLIF(u.name, ''), u.email, '') AS user_name,
       n.content,
       n.created_at
FROM notes n
LEFT JOIN users u ON u.id = n.user_id
WHERE n.grievance_id = ?
ORDER BY n.created_at DESC, n.id DESC`

type noteRow struct {
	ID          string    `db:"id"`
	GrievanceID string    `db:"grievance_id"`
	UserID      string    `db:"user_id"`
	UserName    string    `db:"user_name"`
	Content     string    `db:"content"`
	CreatedAt   time.Time `db:"created_at"`
}

func (q *NoteQuery) ListNotes(ctx context.Context, grievanceID string) ([]*grievance.NoteView, error) {
	var rows []noteRow
	if err := q.db.SelectContext(ctx, &rows, q.db.Rebind(listNotesQuery), grievanceID); err != nil {
		return nil, fmt.Errorf("list notes of grievance %s: %w", grievanceID, err)
	}

	views := make([]*grievance.NoteView, len(rows))
	for i, row := range rows {
		views[i] = &grievance.NoteView{
			ID:          row.ID,
			GrievanceID: row.GrievanceID,
			AuthorID:    row.UserID,
			AuthorName:  row.UserName,
			Content:     row.Content,
			CreatedAt:   row.CreatedAt,
		}
	}
	return views, nil
}
