package cart

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// StatesCollection is the PocketBase collection backing RecordStorage.
const StatesCollection = "cart_states"

// RecordStorage keeps a session's values in the cart_states collection,
// one record per session and key.
type RecordStorage struct {
	App     core.App
	Session string
}

func (r RecordStorage) find(key string) (*core.Record, error) {
	return r.App.FindFirstRecordByFilter(
		StatesCollection,
		"session = {:session} && state_key = {:key}",
		dbx.Params{"session": r.Session, "key": key},
	)
}

func (r RecordStorage) Get(key string) (string, bool, error) {
	rec, err := r.find(key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cart storage: read %s/%s: %w", r.Session, key, err)
	}
	return rec.GetString("value"), true, nil
}

func (r RecordStorage) Set(key, value string) error {
	rec, err := r.find(key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("cart storage: lookup %s/%s: %w", r.Session, key, err)
		}
		col, err := r.App.FindCollectionByNameOrId(StatesCollection)
		if err != nil {
			return fmt.Errorf("cart storage: could not find %s collection: %w", StatesCollection, err)
		}
		rec = core.NewRecord(col)
		rec.Set("session", r.Session)
		rec.Set("state_key", key)
	}
	rec.Set("value", value)
	if err := r.App.Save(rec); err != nil {
		return fmt.Errorf("cart storage: write %s/%s: %w", r.Session, key, err)
	}
	return nil
}
