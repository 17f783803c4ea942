package repositories

import (
	"context"

	"gorm.io/gorm"
)

// requireRow runs after an update that affected no rows. MySQL reports zero
// affected rows when the new values equal the old ones, so "unchanged" has to
// be told apart from "missing" with an explicit lookup.
func requireRow(ctx context.Context, db *gorm.DB, model interface{}, id string) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
