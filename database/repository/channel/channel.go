// Package channel is the repository for the channels table
package channel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thrasher-corp/sqlboiler/boil"

	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
)

// Insert stores a new channel and returns its server-assigned id
func Insert(ctx context.Context, exec boil.ContextExecutor, name string, limit int32, ownerID string) (int32, error) {
	query := `INSERT INTO channels (name, limit_num, owner_id) VALUES ($1, $2, $3) RETURNING id`
	var id int32
	if err := exec.QueryRowContext(ctx, query, name, limit, ownerID).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return id, nil
}

// Delete removes a channel by id
func Delete(ctx context.Context, exec boil.ContextExecutor, id int32) error {
	query := `DELETE FROM channels WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

// Owner returns the owning user of a channel
func Owner(ctx context.Context, exec boil.ContextExecutor, id int32) (string, error) {
	query := `SELECT owner_id FROM channels WHERE id = $1`
	var owner string
	err := exec.QueryRowContext(ctx, query, id).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", common.ErrChannelNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return owner, nil
}

// ByID returns a single channel, or common.ErrChannelNotFound
func ByID(ctx context.Context, exec boil.ContextExecutor, id int32) (*chatrpc.Channel, error) {
	query := `SELECT id, name, limit_num, owner_id FROM channels WHERE id = $1`
	c := new(chatrpc.Channel)
	err := exec.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Limit, &c.OwnerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrChannelNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return c, nil
}

// All returns every channel ordered by id
func All(ctx context.Context, exec boil.ContextExecutor) ([]*chatrpc.Channel, error) {
	query := `SELECT id, name, limit_num, owner_id FROM channels ORDER BY id`
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var channels []*chatrpc.Channel
	for rows.Next() {
		c := new(chatrpc.Channel)
		if err := rows.Scan(&c.ID, &c.Name, &c.Limit, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return channels, nil
}
