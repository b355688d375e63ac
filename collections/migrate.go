package collections

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/tools/types"
)

// MigrateProjectDefaults backfills date_added from the created timestamp on
// projects that have none. Safe to call on every startup -- returns early if
// nothing to migrate.
func MigrateProjectDefaults(app *pocketbase.PocketBase) error {
	records, err := app.FindRecordsByFilter("projects", "date_added = ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate: could not query projects without date_added: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	log.Printf("migrate: backfilling date_added on %d project(s)\n", len(records))

	for _, rec := range records {
		added := rec.GetDateTime("created")
		if added.IsZero() {
			added = types.NowDateTime()
		}
		rec.Set("date_added", added)
		if err := app.Save(rec); err != nil {
			log.Printf("migrate: failed to backfill project %q (%s): %v\n", rec.GetString("title"), rec.Id, err)
			continue
		}
	}
	return nil
}

// ErrUserNotFound is returned by PromoteAdmin for unknown emails.
var ErrUserNotFound = errors.New("user not found")

// PromoteAdmin sets is_admin on the user with the given email.
func PromoteAdmin(app *pocketbase.PocketBase, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("promote admin: %w", ErrUserNotFound)
	}

	user, err := app.FindAuthRecordByEmail("users", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("promote admin %s: %w", email, ErrUserNotFound)
		}
		return fmt.Errorf("promote admin %s: %w", email, err)
	}
	if user.GetBool("is_admin") {
		return nil
	}

	user.Set("is_admin", true)
	if err := app.Save(user); err != nil {
		return fmt.Errorf("promote admin %s: %w", email, err)
	}
	log.Printf("promote admin: %s is now an administrator\n", email)
	return nil
}
