package cmd

import (
	"fmt"

	"github.com/mmuldo/scaler/command"
	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/registry"
)

// session is an open document and style registry.
type session struct {
	doc  *document.File
	repo *registry.SQLiteRepository
	env  *command.Env
}

func openRegistry() (*registry.SQLiteRepository, *registry.Registry, error) {
	repo, e := registry.OpenSQLite(cfg.Database)
	if e != nil {
		return nil, nil, fmt.Errorf("open registry %s: %w", cfg.Database, e)
	}
	return repo, registry.New(repo, logger.ForComponent("registry")), nil
}

func openSession() (*session, error) {
	if cfg.Document == "" {
		return nil, fmt.Errorf("no document: pass --doc or set document in the config")
	}
	doc, e := document.Load(cfg.Document)
	if e != nil {
		return nil, e
	}
	repo, reg, e := openRegistry()
	if e != nil {
		return nil, e
	}

	return &session{
		doc:  doc,
		repo: repo,
		env: &command.Env{
			Store:     doc,
			Registry:  reg,
			Reference: cfg.Reference,
			Log:       logger.ForComponent("command"),
			Persist:   doc.Save,
		},
	}, nil
}

func (s *session) Close() error {
	return s.repo.Close()
}
