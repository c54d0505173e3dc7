package app

import (
	"net/http"

	"redirector/internal/config"
	"redirector/internal/storage"

	"go.uber.org/zap"
)

// SelectStorage - selects the journal storage: database, file, or memory.
func SelectStorage(c *config.Config, logger *zap.SugaredLogger) storage.Journal {
	if c.DBConnection != "" {
		logger.Infow("try using DB")
		s, err := storage.NewStorageDB(c.DBConnection)
		if err == nil {
			return s
		}
		logger.Errorw("database journal unavailable", "error", err)
	}

	if c.JournalFile != "" {
		logger.Infow("try using file", "path", c.JournalFile)
		s, err := storage.NewStorageFile(c.JournalFile, logger)
		if err == nil {
			if err := s.Restore(); err == nil {
				s.AutoSave()
				return s
			}
			logger.Errorw("restore error", "error", err)
			_ = s.Close()
		} else {
			logger.Errorw("error using file", "error", err)
		}
	}

	logger.Infow("using memory")
	return storage.NewStorageMemory()
}

// CreateServer creates and configures an HTTP server.
func CreateServer(c *config.Config, handler http.Handler, logger *zap.SugaredLogger) *http.Server {
	logger.Infof("Redirector at %s", c.Addr)

	return &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}
}
