package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, memberHandler *MemberHandler) {
	if importHandler != nil {
		server.POST("/api/v1/imports", importHandler.StartImport)
		server.GET("/api/v1/imports/:id", importHandler.GetImport)
		server.GET("/api/v1/imports/:id/errors", importHandler.DownloadErrors)
	}
	if memberHandler != nil {
		server.GET("/api/v1/members/:id", memberHandler.GetMemberByID)
	}
}
