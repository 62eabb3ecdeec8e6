package main

import (
	"meetsync/core/logger"
	"meetsync/core/server"
)

// @title MeetSync API
// @version 1.0
// @description API Backend cho ứng dụng MeetSync - Hẹn lịch nhóm offline-first

// @contact.name API Support
// @contact.email support@meetsync.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
