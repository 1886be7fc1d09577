package auditlog

import (
	"log"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
)

// Store persists audit entries; implemented by internal/auditlog.
type Store interface {
	PersistLog(entry models.AuditLog, data interface{}) error
}

type Auditlog struct {
	store Store
}

// Auditable is anything that can describe itself as an audit log entry.
type Auditable interface {
	CreateLogView() models.AuditLog
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable, actorID *int) {
	entry := item.CreateLogView()
	entry.Action = action
	entry.ActorID = actorID

	if err := a.store.PersistLog(entry, data); err != nil {
		log.Println("Unable to create audit log entry for id ", entry.ResourceID)
		return
	}
}

func NewAuditLog(store Store) *Auditlog {
	return &Auditlog{store: store}
}
