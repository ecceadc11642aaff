package session

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientState is one persisted key of one client.
type ClientState struct {
	ClientID  string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"column:state_key;primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (ClientState) TableName() string {
	return "client_states"
}

// SQLStore keeps client state in a SQL table through GORM.
type SQLStore struct {
	client *db.Client
}

func NewSQLStore(client *db.Client) *SQLStore {
	return &SQLStore{client: client}
}

// Migrate creates the client_states table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&ClientState{})
}

func (s *SQLStore) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	var row ClientState
	err := s.client.DB().WithContext(ctx).
		Where("client_id = ? AND state_key = ?", clientID, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, clientID, key, value string) error {
	row := ClientState{ClientID: clientID, Key: key, Value: value}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

// SetIfAbsent inserts with ON CONFLICT DO NOTHING and reads the winner back
// in the same transaction when the row already existed.
func (s *SQLStore) SetIfAbsent(ctx context.Context, clientID, key, value string) (string, bool, error) {
	stored, written := value, false
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		row := ClientState{ClientID: clientID, Key: key, Value: value}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			written = true
			return nil
		}
		var existing ClientState
		if err := tx.Where("client_id = ? AND state_key = ?", clientID, key).Take(&existing).Error; err != nil {
			return err
		}
		stored = existing.Value
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return stored, written, nil
}

func (s *SQLStore) Delete(ctx context.Context, clientID, key string) error {
	return s.client.DB().WithContext(ctx).
		Where("client_id = ? AND state_key = ?", clientID, key).
		Delete(&ClientState{}).Error
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
