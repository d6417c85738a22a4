package manager

import (
	"context"

	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/database"
	channelrepo "github.com/parley-chat/parley/database/repository/channel"
	userrepo "github.com/parley-chat/parley/database/repository/user"
)

// UserStore is the persistence surface the user service depends on
type UserStore interface {
	InsertUser(ctx context.Context, id, name, passwordHash string) error
	UserPasswordHash(ctx context.Context, id string) (string, error)
}

// ChannelStore is the persistence surface the channel service depends on
type ChannelStore interface {
	InsertChannel(ctx context.Context, name string, limit int32, ownerID string) (int32, error)
	DeleteChannel(ctx context.Context, id int32) error
	ChannelOwner(ctx context.Context, id int32) (string, error)
	ChannelByID(ctx context.Context, id int32) (*chatrpc.Channel, error)
	AllChannels(ctx context.Context) ([]*chatrpc.Channel, error)
}

// Store joins both persistence surfaces
type Store interface {
	UserStore
	ChannelStore
}

// SQLStore implements Store over the postgres repositories
type SQLStore struct {
	db *database.Instance
}

// NewSQLStore returns a store backed by db
func NewSQLStore(db *database.Instance) *SQLStore {
	return &SQLStore{db: db}
}

// InsertUser implements UserStore
func (s *SQLStore) InsertUser(ctx context.Context, id, name, passwordHash string) error {
	return userrepo.Insert(ctx, s.db.SQL(), id, name, passwordHash)
}

// UserPasswordHash implements UserStore
func (s *SQLStore) UserPasswordHash(ctx context.Context, id string) (string, error) {
	return userrepo.PasswordHash(ctx, s.db.SQL(), id)
}

// InsertChannel implements ChannelStore
func (s *SQLStore) InsertChannel(ctx context.Context, name string, limit int32, ownerID string) (int32, error) {
	return channelrepo.Insert(ctx, s.db.SQL(), name, limit, ownerID)
}

// DeleteChannel implements ChannelStore
func (s *SQLStore) DeleteChannel(ctx context.Context, id int32) error {
	return channelrepo.Delete(ctx, s.db.SQL(), id)
}

// ChannelOwner implements ChannelStore
func (s *SQLStore) ChannelOwner(ctx context.Context, id int32) (string, error) {
	return channelrepo.Owner(ctx, s.db.SQL(), id)
}

// ChannelByID implements ChannelStore
func (s *SQLStore) ChannelByID(ctx context.Context, id int32) (*chatrpc.Channel, error) {
	return channelrepo.ByID(ctx, s.db.SQL(), id)
}

// AllChannels implements ChannelStore
func (s *SQLStore) AllChannels(ctx context.Context) ([]*chatrpc.Channel, error) {
	return channelrepo.All(ctx, s.db.SQL())
}
