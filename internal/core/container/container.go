package container

import (
	"database/sql"
	"log"
	"os"

	auditLogRepo "github.com/Cedhu-Sog/IT-CEDHU/internal/auditlog"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/backup"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/catalog"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/export"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/inventory/items"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/repository"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/users"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/auditlog"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"
)

type Container struct {
	Repository     *repository.Repository
	AuditLog       *auditlog.Auditlog
	LoginHandler   *security.LoginHandler
	ItemHandler    *items.ItemHandler
	UserHandler    *users.UsersHandler
	CatalogHandler *catalog.CatalogHandler
	ExportHandler  *export.ExportHandler
	BackupHandler  *backup.BackupHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	logRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(logRepo)

	accountRepo := users.NewRepository(repo)
	userService := users.NewUserService(accountRepo, auditLog)
	userHandler := users.NewHandler(userService, accountRepo)
	loginHandler := security.NewLoginHandler(accountRepo)

	catalogRepo := catalog.NewRepository(repo)
	catalogHandler := catalog.NewCatalogHandler(catalogRepo)

	itemRepo := items.NewRepository(repo)
	itemService := items.NewItemService(itemRepo, catalogRepo, auditLog)
	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}
	itemHandler := items.NewItemHandler(itemService, itemRepo, logRepo, mediaDir)

	// Sheets push stays optional: without Google credentials the rest of
	// the export endpoints keep working.
	pusher, err := export.NewSheetsPusher()
	if err != nil {
		log.Printf("Google Sheets export disabled: %v", err)
		pusher = nil
	}
	exportHandler := export.NewExportHandler(itemRepo, pusher)

	backupService := backup.NewService(os.Getenv("DATABASE_URL"))
	backupHandler := backup.NewBackupHandler(backupService)

	return &Container{
		Repository:     repo,
		AuditLog:       auditLog,
		LoginHandler:   loginHandler,
		ItemHandler:    itemHandler,
		UserHandler:    userHandler,
		CatalogHandler: catalogHandler,
		ExportHandler:  exportHandler,
		BackupHandler:  backupHandler,
	}
}
