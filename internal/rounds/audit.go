package rounds

import (
	"context"
	"encoding/json"

	"github.com/recruitdesk/recruitdesk/internal/models"
	"gorm.io/datatypes"
)

// Recorder appends audit entries for successful state changes. Failed
// preconditions never reach it.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, actor Actor, action, area string, details map[string]interface{}) error {
	var raw datatypes.JSON

	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			return err
		}
		raw = datatypes.JSON(encoded)
	}

	return r.store.AppendAudit(ctx, &models.AuditLog{
		Action:    action,
		Area:      area,
		Details:   raw,
		ActorKind: actor.Kind,
		ActorID:   actor.ID,
	})
}
