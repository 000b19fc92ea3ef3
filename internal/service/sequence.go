package service

import (
	"errors"
	"fmt"

	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

// Sequence scopes. Subtask numbering is scoped per parent so sibling
// ordinals stay dense per parent and are never reused after deletion.
const (
	scopeRequirement = "requirement"
	scopeEpic        = "epic"
	scopeFR          = "fr"
	scopeTask        = "task"
)

func subtaskScope(parentID uint) string {
	return fmt.Sprintf("task:%d", parentID)
}

// nextSequence atomically increments the (project, scope) counter and
// returns the new value. It runs inside the caller's transaction; the
// UPDATE locks the counter row, so concurrent creators serialize here
// instead of racing a sibling count.
func nextSequence(tx *gorm.DB, projectID uint, scope string) (int64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		res := tx.Model(&model.Sequence{}).
			Where("project_id = ? AND scope = ?", projectID, scope).
			UpdateColumn("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected > 0 {
			var seq model.Sequence
			if err := tx.Where("project_id = ? AND scope = ?", projectID, scope).First(&seq).Error; err != nil {
				return 0, err
			}
			return seq.Value, nil
		}

		seq := model.Sequence{ProjectID: projectID, Scope: scope, Value: 1}
		err := tx.Create(&seq).Error
		if err == nil {
			return 1, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, err
		}
		// Lost the first-insert race; the row exists now, increment it.
	}
	return 0, fmt.Errorf("50002:sequence allocation conflict for scope %s", scope)
}

// allocSequence runs nextSequence in its own transaction. A creation
// that fails afterwards wastes the number; gaps are acceptable,
// duplicates are not.
func allocSequence(db *gorm.DB, projectID uint, scope string) (int64, error) {
	var v int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		v, err = nextSequence(tx, projectID, scope)
		return err
	})
	return v, err
}

// isDuplicateHierarchyID reports whether a create failed on the unique
// (project_id, hierarchy_id) index. Callers retry once with a fresh
// sequence number and surface a coded error on the second collision
// rather than silently shipping two entities with the same ID.
func isDuplicateHierarchyID(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
