package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/danisworo/member-import/internal/application/importing"
	appmember "github.com/danisworo/member-import/internal/application/member"
	"github.com/danisworo/member-import/internal/infrastructure/repository"
	httpecho "github.com/danisworo/member-import/internal/interfaces/http/echo"
)

func NewHTTPServer(db *gorm.DB) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("10M"))

	importJobRepo := repository.NewImportJobRepository(db)
	startImport := importing.NewStartImport(importJobRepo)
	getImport := importing.NewGetImport(importJobRepo)
	importHandler := httpecho.NewImportHandler(startImport, getImport)

	memberQueryRepo := repository.NewMemberQueryRepository(db)
	getMemberByID := appmember.NewGetMemberByID(memberQueryRepo)
	memberHandler := httpecho.NewMemberHandler(getMemberByID)

	httpecho.RegisterRoutes(server, importHandler, memberHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
