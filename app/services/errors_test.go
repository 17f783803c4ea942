package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindOf(t *testing.T) {
	partial := &PartialReconciliationError{
		PromotionID: "promo-1",
		Failures:    []ProductFailure{{ProductID: "p1", Op: OpLink, Err: storeError(driver.ErrBadConn)}},
	}
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"unauthorized", fmt.Errorf("create_user: %w", ErrUnauthorized), KindUnauthorized},
		{"duplicate", fmt.Errorf("slug: %w", ErrDuplicateSlug), KindDuplicateSlug},
		{"validation", NewValidationError("name", "required"), KindValidation},
		{"partial wins over wrapped cause", partial, KindPartialReconciliation},
		{"transient", storeError(context.DeadlineExceeded), KindTransient},
		{"bad connection", storeError(driver.ErrBadConn), KindTransient},
		{"not found", storeError(gorm.ErrRecordNotFound), KindNotFound},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			if tt.err != nil {
				assert.NotEmpty(t, UserMessage(tt.err))
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"slug": "bad", "name": "missing"}}
	assert.Equal(t, "validation failed: name: missing; slug: bad", err.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrValidation)
}

func TestPartialReconciliationError(t *testing.T) {
	err := &PartialReconciliationError{
		PromotionID: "promo-1",
		Succeeded:   2,
		Failures: []ProductFailure{
			{ProductID: "p9", Op: OpLink, Err: storeError(gorm.ErrRecordNotFound)},
		},
	}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "link p9")
	assert.Contains(t, UserMessage(err), "1 producto(s)")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isDuplicateKey(errors.New("other")))
}
